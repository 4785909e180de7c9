package jwks

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/nao1215/blog/pkg/httpclient"
)

// wellKnownPath はJWKSの配置される標準パス。authorityの末尾スラッシュに
// そのまま連結する。
const wellKnownPath = ".well-known/jwks.json"

// fetchTimeout はJWKS取得の上限時間。
const fetchTimeout = 10 * time.Second

// ErrKeyNotFound は鍵セットに指定されたkidの鍵が存在しないことを表す。
// 鍵ローテーション直後の古いトークンなどで発生する。
var ErrKeyNotFound = errors.New("指定されたkidの鍵が鍵セットに存在しません")

// Set は取得済みの公開鍵セット。kidからRSA公開鍵を引く。
type Set struct {
	// keys はkidをキーとするRSA公開鍵のマップ。
	keys map[string]*rsa.PublicKey
}

// Key はkidに対応するRSA公開鍵を返す。
// 存在しない場合はErrKeyNotFoundを返す。
func (s *Set) Key(kid string) (*rsa.PublicKey, error) {
	key, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("kid=%q: %w", kid, ErrKeyNotFound)
	}
	return key, nil
}

// Len は鍵セットに含まれる鍵の数を返す。
func (s *Set) Len() int {
	return len(s.keys)
}

// Client はIDプロバイダからJWKSを取得するクライアント。
type Client struct {
	// httpClient はJWKS取得用のHTTPクライアント。
	httpClient *httpclient.Client
}

// NewClient は新しいJWKS取得クライアントを生成する。
// authorityはIDプロバイダのベースURLで、末尾スラッシュを含む形式。
func NewClient(authority string) *Client {
	return &Client{
		httpClient: httpclient.New(authority, fetchTimeout),
	}
}

// jwksResponse はJWKSエンドポイントのレスポンス構造。
type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

// jwkKey はJWKS内の1つの鍵。RSA鍵の再構築に必要なフィールドのみを持つ。
type jwkKey struct {
	// Kty は鍵の種類（"RSA"のみ扱う）。
	Kty string `json:"kty"`
	// Kid は鍵の識別子。
	Kid string `json:"kid"`
	// N はbase64url形式のRSAモジュラス。
	N string `json:"n"`
	// E はbase64url形式のRSA公開指数。
	E string `json:"e"`
}

// Fetch はIDプロバイダのwell-knownパスからJWKSを取得する。
// キャッシュは持たず、呼び出しのたびにネットワークアクセスが発生する。
// ネットワークエラー、タイムアウト、デコード不能なボディはエラーとして返す。
func (c *Client) Fetch(ctx context.Context) (*Set, error) {
	var resp jwksResponse
	if err := c.httpClient.GetJSON(ctx, wellKnownPath, &resp); err != nil {
		return nil, fmt.Errorf("JWKSの取得に失敗: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(resp.Keys))
	for _, k := range resp.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pubKey, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			// 壊れた鍵はスキップし、残りの鍵で検証を続けられるようにする
			continue
		}
		keys[k.Kid] = pubKey
	}

	return &Set{keys: keys}, nil
}

// parseRSAPublicKey はbase64url形式のモジュラス(n)と公開指数(e)から
// RSA公開鍵を再構築する。
func parseRSAPublicKey(nBase64, eBase64 string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nBase64)
	if err != nil {
		return nil, fmt.Errorf("RSAモジュラスのデコードに失敗: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eBase64)
	if err != nil {
		return nil, fmt.Errorf("RSA公開指数のデコードに失敗: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
