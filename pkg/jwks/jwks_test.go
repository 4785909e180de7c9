package jwks

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestKey はテスト用のRSA鍵ペアを生成するヘルパー関数。
func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("RSA鍵の生成に失敗: %v", err)
	}
	return key
}

// jwksJSON は公開鍵からJWKSレスポンスのJSONを組み立てるヘルパー関数。
func jwksJSON(t *testing.T, kid string, pub *rsa.PublicKey) []byte {
	t.Helper()
	doc := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("JWKSのシリアライズに失敗: %v", err)
	}
	return b
}

// newJWKSServer はJWKSを配信するテストサーバーを生成するヘルパー関数。
func newJWKSServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// TestFetch はFetch関数を検証する。
func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("well-knownパスからJWKSを取得して鍵を引けること", func(t *testing.T) {
		t.Parallel()

		key := newTestKey(t)
		ts := newJWKSServer(t, jwksJSON(t, "key-1", &key.PublicKey))

		client := NewClient(ts.URL + "/")
		set, err := client.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch()でエラーが発生: %v", err)
		}

		if set.Len() != 1 {
			t.Errorf("鍵の数: got %d, want 1", set.Len())
		}

		got, err := set.Key("key-1")
		if err != nil {
			t.Fatalf("Key()でエラーが発生: %v", err)
		}
		if got.N.Cmp(key.PublicKey.N) != 0 {
			t.Error("再構築されたモジュラスが元の公開鍵と一致しません")
		}
		if got.E != key.PublicKey.E {
			t.Errorf("公開指数: got %d, want %d", got.E, key.PublicKey.E)
		}
	})

	t.Run("存在しないkidはErrKeyNotFoundを返すこと", func(t *testing.T) {
		t.Parallel()

		key := newTestKey(t)
		ts := newJWKSServer(t, jwksJSON(t, "key-1", &key.PublicKey))

		client := NewClient(ts.URL + "/")
		set, err := client.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch()でエラーが発生: %v", err)
		}

		if _, err := set.Key("unknown-kid"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("エラー: got %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("RSA以外の鍵と壊れた鍵はスキップされること", func(t *testing.T) {
		t.Parallel()

		key := newTestKey(t)
		doc := fmt.Sprintf(`{"keys":[
			{"kty":"EC","kid":"ec-key","crv":"P-256"},
			{"kty":"RSA","kid":"broken","n":"!!not-base64!!","e":"AQAB"},
			{"kty":"RSA","kid":"key-1","n":%q,"e":%q}
		]}`,
			base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		)
		ts := newJWKSServer(t, []byte(doc))

		client := NewClient(ts.URL + "/")
		set, err := client.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch()でエラーが発生: %v", err)
		}

		if set.Len() != 1 {
			t.Errorf("鍵の数: got %d, want 1", set.Len())
		}
		if _, err := set.Key("key-1"); err != nil {
			t.Errorf("正常な鍵が引けません: %v", err)
		}
	})

	t.Run("デコード不能なボディはエラーになること", func(t *testing.T) {
		t.Parallel()

		ts := newJWKSServer(t, []byte("this is not json"))

		client := NewClient(ts.URL + "/")
		if _, err := client.Fetch(context.Background()); err == nil {
			t.Fatal("エラーが返ることを期待したがnilだった")
		}
	})

	t.Run("プロバイダに接続できない場合はエラーになること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		url := ts.URL
		ts.Close()

		client := NewClient(url + "/")
		if _, err := client.Fetch(context.Background()); err == nil {
			t.Fatal("エラーが返ることを期待したがnilだった")
		}
	})
}
