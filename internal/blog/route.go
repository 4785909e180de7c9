package blog

import (
	"net/http"
	"regexp"
	"strconv"
)

// routeKind はディスパッチャが処理するルートの種類。
// ここに無い(メソッド, パス)の組み合わせはすべてrouteNotFoundになる。
type routeKind int

const (
	// routeNotFound はどのルートにも一致しなかったことを表す。
	routeNotFound routeKind = iota
	// routeGetPost は記事の個別取得（GET /posts/{id}）。
	routeGetPost
	// routeListPosts は記事の一覧取得（GET /posts）。
	routeListPosts
	// routeCreatePost は記事の作成（POST /posts）。要認証。
	routeCreatePost
	// routeHealthCheck は死活監視（GET /isAlive, /isReady）。
	routeHealthCheck
	// routeFavicon はファビコンの取得（GET /favicon.ico）。
	routeFavicon
)

// route はルート分類の結果。routeGetPostのときのみpostIDが有効。
type route struct {
	kind   routeKind
	postID int64
}

// postIDPattern は記事ID付きパスのパターン。プロセス初期化時に一度だけ
// コンパイルする。パス全体に対してアンカーしているため、
// "/x/posts/1" のような部分一致は起こらない。
var postIDPattern = regexp.MustCompile(`^/posts/(\d+)$`)

// matchRoute は(HTTPメソッド, パス)を閉じたルート集合に分類する。
// 副作用を持たない純粋関数で、数値IDパターンをリテラルパスより先に
// 評価する（先勝ち）。
//
// 数値でないIDセグメントやint64に収まらない値はこのパターンに
// 一致しなかったものとして扱い、routeNotFoundに落とす。
func matchRoute(method, path string) route {
	if m := postIDPattern.FindStringSubmatch(path); m != nil {
		if method == http.MethodGet {
			if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				return route{kind: routeGetPost, postID: id}
			}
		}
		return route{kind: routeNotFound}
	}

	switch path {
	case "/posts", "/posts/":
		// 末尾スラッシュは許容する
		switch method {
		case http.MethodGet:
			return route{kind: routeListPosts}
		case http.MethodPost:
			return route{kind: routeCreatePost}
		}
	case "/isAlive", "/isReady":
		if method == http.MethodGet {
			return route{kind: routeHealthCheck}
		}
	case "/favicon.ico":
		if method == http.MethodGet {
			return route{kind: routeFavicon}
		}
	}
	return route{kind: routeNotFound}
}
