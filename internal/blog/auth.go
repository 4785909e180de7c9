package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nao1215/blog/pkg/jwks"
)

// errNoKeyID はトークンヘッダーから署名鍵の識別子を取り出せなかったことを表す。
var errNoKeyID = errors.New("トークンヘッダーにkidが含まれていません")

// TokenValidator はIDプロバイダが発行したBearerトークンを検証する。
// 鍵セットはキャッシュせず、検証のたびにJWKSを取得し直すため、
// 保護されたリクエストはIDプロバイダの可用性と運命を共にする。
type TokenValidator struct {
	// authority はIDプロバイダのベースURL。発行者（iss）クレームと
	// 一致している必要がある。
	authority string
	// keys はJWKS取得クライアント。
	keys *jwks.Client
}

// NewTokenValidator は新しいトークン検証器を生成する。
func NewTokenValidator(authority string) *TokenValidator {
	return &TokenValidator{
		authority: authority,
		keys:      jwks.NewClient(authority),
	}
}

// Validate はトークンを検証して有効かどうかを返す。
//
// 戻り値は3値に分かれる:
//   - (true, nil): 署名・発行者・サブジェクトの全チェックに合格
//   - (false, nil): いずれかのチェックに不合格（不正な資格情報）
//   - (false, error): 検証処理そのものの失敗。JWKSの取得エラー、
//     解析できないトークン、鍵セットに存在しないkidなど
//
// エラーは呼び出し側で500系、falseは401系に対応づける。
func (v *TokenValidator) Validate(ctx context.Context, token string) (bool, error) {
	set, err := v.keys.Fetch(ctx)
	if err != nil {
		return false, fmt.Errorf("鍵セットの取得に失敗: %w", err)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errNoKeyID
		}
		return set.Key(kid)
	},
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwt.WithIssuer(v.authority),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return false, fmt.Errorf("トークンの解析に失敗: %w", err)
		case errors.Is(err, errNoKeyID):
			return false, fmt.Errorf("署名鍵の特定に失敗: %w", err)
		case errors.Is(err, jwks.ErrKeyNotFound):
			return false, fmt.Errorf("署名鍵の解決に失敗: %w", err)
		}
		// 署名・発行者・有効期限の不一致は不正な資格情報として扱い、
		// 検証インフラの障害とは区別する
		return false, nil
	}
	if !parsed.Valid {
		return false, nil
	}

	// サブジェクトクレームの存在チェック
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return false, nil
	}
	return true, nil
}
