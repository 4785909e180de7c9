// Package httpclient は外部サービスからJSONリソースを取得するHTTPクライアントを提供する。
//
// IDプロバイダの公開鍵セット（JWKS）の取得など、外部サービスへの
// 読み取りアクセスのパターンを統一する。タイムアウトは呼び出し側が
// 明示的に指定し、暗黙の無制限待ちを作らない。
package httpclient
