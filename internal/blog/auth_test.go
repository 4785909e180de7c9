package blog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestTokenValidatorValidate はトークン検証器の3値の判定を検証する。
// (true, nil)は合格、(false, nil)は資格情報の不合格、
// (false, error)は検証処理そのものの失敗を表す。
func TestTokenValidatorValidate(t *testing.T) {
	t.Parallel()

	t.Run("全チェックに合格するトークンはtrueを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		token := idp.signToken(t, testKeyID, idp.validClaims())

		valid, err := v.Validate(context.Background(), token)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !valid {
			t.Error("valid: got false, want true")
		}
	})

	t.Run("発行者が一致しないトークンはエラーなしでfalseを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		claims := idp.validClaims()
		claims.Issuer = "https://other-authority.example.com/"
		token := idp.signToken(t, testKeyID, claims)

		valid, err := v.Validate(context.Background(), token)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("サブジェクトが空のトークンはエラーなしでfalseを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		claims := idp.validClaims()
		claims.Subject = ""
		token := idp.signToken(t, testKeyID, claims)

		valid, err := v.Validate(context.Background(), token)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("有効期限切れのトークンはエラーなしでfalseを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		claims := idp.validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-1 * time.Hour))
		token := idp.signToken(t, testKeyID, claims)

		valid, err := v.Validate(context.Background(), token)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("署名が一致しないトークンはエラーなしでfalseを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		// 公開鍵と対応しない別の鍵で署名する
		other := newIdentityProvider(t)
		claims := idp.validClaims()
		token := other.signToken(t, testKeyID, claims)

		valid, err := v.Validate(context.Background(), token)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("解析できないトークンはエラーを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		valid, err := v.Validate(context.Background(), "this-is-not-a-jwt")
		if err == nil {
			t.Fatal("エラーが返りませんでした")
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("kidを持たないトークンはエラーを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		token := idp.signToken(t, "", idp.validClaims())

		valid, err := v.Validate(context.Background(), token)
		if err == nil {
			t.Fatal("エラーが返りませんでした")
		}
		if !errors.Is(err, errNoKeyID) {
			t.Errorf("エラー種別: got %v, want %v", err, errNoKeyID)
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("鍵セットに存在しないkidのトークンはエラーを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		token := idp.signToken(t, "unknown-kid", idp.validClaims())

		valid, err := v.Validate(context.Background(), token)
		if err == nil {
			t.Fatal("エラーが返りませんでした")
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("JWKSを取得できない場合はエラーを返すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		token := idp.signToken(t, testKeyID, idp.validClaims())
		idp.ts.Close()

		valid, err := v.Validate(context.Background(), token)
		if err == nil {
			t.Fatal("エラーが返りませんでした")
		}
		if valid {
			t.Error("valid: got true, want false")
		}
	})

	t.Run("検証のたびにJWKSを取得し直すこと", func(t *testing.T) {
		t.Parallel()
		idp := newIdentityProvider(t)
		v := NewTokenValidator(idp.authority())

		token := idp.signToken(t, testKeyID, idp.validClaims())

		for i := 0; i < 3; i++ {
			if _, err := v.Validate(context.Background(), token); err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
		}
		if got := idp.hits.Load(); got != 3 {
			t.Errorf("JWKSの取得回数: got %d, want 3", got)
		}
	})
}
