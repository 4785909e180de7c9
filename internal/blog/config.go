package blog

import (
	"fmt"
	"os"
)

// Config はサービス起動時に一度だけ確定する設定。
// 必須項目が欠けている場合は起動を中断する（リクエスト単位のエラーにはしない）。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// Authority はIDプロバイダのベースURL。トークンの発行者（iss）と
	// 一致している必要があり、JWKSの取得先のベースにもなる。
	// 末尾のスラッシュを含む形式（例: "https://example.auth0.com/"）。
	Authority string
	// DatabaseDSN はSQLiteデータベースの接続文字列。
	DatabaseDSN string
	// FrontendURL はCORSを許可するフロントエンドのオリジン。
	// 空の場合、CORSミドルウェアは有効化しない。
	FrontendURL string
}

// LoadConfig は環境変数から設定を読み込んで検証する。
// AUTHORITYとDATABASE_URLは必須。PORTは省略時8080。
func LoadConfig() (*Config, error) {
	authority := os.Getenv("AUTHORITY")
	if authority == "" {
		return nil, fmt.Errorf("環境変数AUTHORITYが設定されていません")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("環境変数DATABASE_URLが設定されていません")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:        port,
		Authority:   authority,
		DatabaseDSN: dsn,
		FrontendURL: os.Getenv("FRONTEND_URL"),
	}, nil
}
