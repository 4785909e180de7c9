// Package blog はブログAPIサービスの内部実装を提供する。
//
// 記事（Post）の一覧取得・個別取得・作成を行う小さなJSON APIで、
// 作成のみIDプロバイダが発行した署名付きBearerトークンを要求する。
// リクエストはすべて単一のディスパッチャを通り、ルート分類 →
// （作成時のみ）トークン検証 → ストアへのクエリ → レスポンス変換
// の順で処理される。
//
// 主なコンポーネント:
//   - route.go: (メソッド, パス) を閉じたルート集合に分類する純粋関数
//   - auth.go: JWKSを都度取得してトークンを検証するTokenValidator
//   - server.go: ディスパッチャと各ハンドラ、エラー分類のHTTP変換
//   - db/: postsテーブルへのデータアクセス層
package blog
