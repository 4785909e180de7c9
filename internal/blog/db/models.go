package blogdb

import "time"

// Post はpostsテーブルの1行を表す。
type Post struct {
	// ID はストアが採番する一意な識別子。再利用されない。
	ID int64
	// Title は記事のタイトル。
	Title string
	// Category は記事のカテゴリ。
	Category string
	// Content は記事の本文。
	Content string
	// PostDate はストアが設定する作成日時。
	PostDate time.Time
	// Hidden は非公開フラグ。
	Hidden bool
}
