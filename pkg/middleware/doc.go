// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// パニックリカバリ、リクエストIDの採番、CORS設定など、
// ハンドラ本体の関心事から切り離せる横断的な処理を含む。
package middleware
