package blog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	blogdb "github.com/nao1215/blog/internal/blog/db"
	"github.com/nao1215/blog/pkg/httpclient"
	"github.com/nao1215/blog/pkg/middleware"
	_ "modernc.org/sqlite"
)

// クライアントへ返す固定の診断メッセージ。内部の詳細は含めない。
const (
	msgJSONSerializeFailed = "Could not serialize JSON"
	msgDBQueryFailed       = "Database query failed"
	msgDBItemNotFound      = "Database item not found"
	msgValidationError     = "JWT token validation error"
	msgMalformedHeader     = "Malformed header, unable to decode"
)

// bearerPrefix はAuthorizationヘッダーのスキームマーカー。
const bearerPrefix = "Bearer "

// store はディスパッチャから見たデータアクセス層。
// blogdb.Queriesが実装する。テストでは呼び出し回数を数えるラッパーを挟む。
type store interface {
	GetPostByID(ctx context.Context, id int64) (blogdb.Post, error)
	ListPosts(ctx context.Context) ([]blogdb.Post, error)
	CreatePost(ctx context.Context, arg blogdb.CreatePostParams) (int64, error)
}

// Server はブログAPIサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はpostsテーブルへのデータアクセス層。
	queries store
	// db はSQLiteデータベース接続。
	db *sql.DB
	// validator はBearerトークンの検証器。
	validator *TokenValidator
}

// NewServer は新しいブログサーバーを生成する。
// SQLiteデータベースの初期化とスキーマ適用を行う。
func NewServer(cfg *Config) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	if cfg.FrontendURL != "" {
		router.Use(middleware.CORS([]string{cfg.FrontendURL}))
	}

	s := &Server{
		router:    router,
		port:      cfg.Port,
		queries:   blogdb.New(sqlDB),
		db:        sqlDB,
		validator: NewTokenValidator(cfg.Authority),
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Shutdown はデータベース接続をクローズする。
func (s *Server) Shutdown() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("データベースのクローズに失敗: %v", err)
		}
	}
}

// setupRoutes はAPIルーティングを設定する。
// ルート分類はGinの木構造には乗せず、route.goの純粋関数に委ねる。
// 数値IDパターンの先勝ち評価、末尾スラッシュの直接許容、メソッドに
// 依存しない数字判定といった分類規則を1箇所に集約するため、
// 全パスを単一のキャッチオールで受ける。
func (s *Server) setupRoutes() {
	s.router.Any("/*path", s.dispatch())
}

// dispatch は受信リクエストをルート分類し、対応するハンドラへ振り分ける。
// どのルートにも一致しない場合は空ボディの404を返す。
func (s *Server) dispatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch r := matchRoute(c.Request.Method, c.Request.URL.Path); r.kind {
		case routeListPosts:
			s.handleListPosts(c)
		case routeGetPost:
			s.handleGetPost(c, r.postID)
		case routeCreatePost:
			s.handleCreatePost(c)
		case routeHealthCheck:
			s.handleHealthCheck(c)
		case routeFavicon:
			s.handleFavicon(c)
		default:
			c.Status(http.StatusNotFound)
		}
	}
}

// inputPost は記事作成リクエストのJSON構造。
// IDと作成日時はストアが採番・設定するため含まない。
type inputPost struct {
	// Title は記事のタイトル。
	Title string `json:"title"`
	// Category は記事のカテゴリ。
	Category string `json:"category"`
	// Content は記事の本文。
	Content string `json:"content"`
	// Hidden は非公開フラグ。
	Hidden bool `json:"hidden"`
}

// postResponse は記事のJSONレスポンス構造。
type postResponse struct {
	// ID は記事の一意識別子。
	ID int64 `json:"id"`
	// Title は記事のタイトル。
	Title string `json:"title"`
	// Category は記事のカテゴリ。
	Category string `json:"category"`
	// Content は記事の本文。
	Content string `json:"content"`
	// PostDate は作成日時（"YYYY-MM-DD HH:MM:SS"形式）。
	PostDate string `json:"postdate"`
	// Hidden は非公開フラグ。
	Hidden bool `json:"hidden"`
}

// toPostResponse はDB行をJSONレスポンスに変換する。
func toPostResponse(p blogdb.Post) postResponse {
	return postResponse{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Content:  p.Content,
		PostDate: p.PostDate.Format("2006-01-02 15:04:05"),
		Hidden:   p.Hidden,
	}
}

// handleHealthCheck は死活監視に応答する。
// ストアにもIDプロバイダにも触れず、常に空ボディの200を返す。
func (s *Server) handleHealthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handleFavicon は埋め込み済みのファビコンを返す。
func (s *Server) handleFavicon(c *gin.Context) {
	c.Data(http.StatusOK, "image/png", faviconPNG)
}

// handleListPosts は全記事の一覧をJSON配列で返す。認証は不要。
func (s *Server) handleListPosts(c *gin.Context) {
	posts, err := s.queries.ListPosts(c.Request.Context())
	if err != nil {
		log.Printf("記事一覧の取得に失敗 (request_id=%s): %v", middleware.GetRequestID(c), err)
		s.serverError(c, msgDBQueryFailed)
		return
	}

	responses := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, toPostResponse(p))
	}
	s.respondJSON(c, responses)
}

// handleGetPost は指定されたIDの記事を1件返す。認証は不要。
func (s *Server) handleGetPost(c *gin.Context, id int64) {
	p, err := s.queries.GetPostByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		// 行が存在しない場合も404ではなく500を返す（従来挙動の維持）
		s.serverError(c, msgDBItemNotFound)
		return
	}
	if err != nil {
		log.Printf("記事の取得に失敗 (request_id=%s, id=%d): %v", middleware.GetRequestID(c), id, err)
		s.serverError(c, msgDBQueryFailed)
		return
	}

	s.respondJSON(c, toPostResponse(p))
}

// handleCreatePost は記事を作成する。唯一の要認証ルート。
//
// 認証ゲートを必ずボディ解析・ストアアクセスより先に通す:
// ヘッダー欠如は検証器を呼ばずに401、ヘッダー不正は500、
// 検証エラーは500、検証不合格は401。ストア接続をIDプロバイダへの
// ネットワーク呼び出しの間に抱え込まないため、この順序は変えない。
func (s *Server) handleCreatePost(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	if !utf8.ValidString(authHeader) {
		s.serverError(c, msgMalformedHeader)
		return
	}
	token, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found {
		s.serverError(c, msgMalformedHeader)
		return
	}

	ctx := httpclient.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
	valid, err := s.validator.Validate(ctx, token)
	if err != nil {
		log.Printf("トークン検証に失敗 (request_id=%s): %v", middleware.GetRequestID(c), err)
		s.serverError(c, msgValidationError)
		return
	}
	if !valid {
		c.Status(http.StatusUnauthorized)
		return
	}

	var in inputPost
	if err := json.NewDecoder(c.Request.Body).Decode(&in); err != nil {
		s.serverError(c, fmt.Sprintf("Could not deserialize JSON: %v", err))
		return
	}

	id, err := s.queries.CreatePost(c.Request.Context(), blogdb.CreatePostParams{
		Title:    in.Title,
		Category: in.Category,
		Content:  in.Content,
		Hidden:   in.Hidden,
	})
	if err != nil {
		log.Printf("記事の作成に失敗 (request_id=%s): %v", middleware.GetRequestID(c), err)
		s.serverError(c, msgDBQueryFailed)
		return
	}

	// 採番されたIDとストアが設定した作成日時を含めるため、挿入した行を読み直す
	created, err := s.queries.GetPostByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		s.serverError(c, msgDBItemNotFound)
		return
	}
	if err != nil {
		log.Printf("作成した記事の取得に失敗 (request_id=%s, id=%d): %v", middleware.GetRequestID(c), id, err)
		s.serverError(c, msgDBQueryFailed)
		return
	}

	s.respondJSON(c, toPostResponse(created))
}

// respondJSON は成功ペイロードをJSONとして返す。
// シリアライズ失敗を固定メッセージの500に対応づけるため、
// Ginのレンダリングに任せず自前でシリアライズする。
func (s *Server) respondJSON(c *gin.Context, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("レスポンスのシリアライズに失敗 (request_id=%s): %v", middleware.GetRequestID(c), err)
		s.serverError(c, msgJSONSerializeFailed)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// serverError は固定メッセージをボディに持つ500レスポンスを返す。
func (s *Server) serverError(c *gin.Context, message string) {
	c.String(http.StatusInternalServerError, message)
}
