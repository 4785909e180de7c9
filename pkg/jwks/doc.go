// Package jwks はIDプロバイダが公開する鍵セット（JWKS）の取得を提供する。
//
// well-knownパスからJSON Web Key Setを取得し、RSA公開鍵として
// 再構築したものをkidで引けるようにする。鍵セットはキャッシュせず、
// 検証のたびに取得し直す。プロバイダの鍵ローテーションに常に追従する
// 代わりに、保護されたリクエストごとに取得コストを支払う。
package jwks
