// ブログAPIサービスのエントリポイント。
// 記事の取得・作成を提供するJSON HTTP APIを起動する。
// 記事の作成はIDプロバイダが発行した署名付きトークンで保護される。
package main

import (
	"log"

	"github.com/nao1215/blog/internal/blog"
)

func main() {
	cfg, err := blog.LoadConfig()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := blog.NewServer(cfg)
	if err != nil {
		log.Fatalf("ブログサーバーの初期化に失敗: %v", err)
	}

	log.Printf("ブログサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("ブログサービスの起動に失敗: %v", err)
	}
}
