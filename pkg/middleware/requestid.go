package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// headerKeyRequestID はリクエストIDを受け渡すHTTPヘッダーキー。
const headerKeyRequestID = "X-Request-ID"

// RequestID はリクエストごとに一意なIDを採番するGinミドルウェアを返す。
// クライアントがX-Request-IDを送ってきた場合はそれを引き継ぎ、
// なければUUIDを新規に採番する。IDはレスポンスヘッダーにも返す。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerKeyRequestID)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set("request_id", id)
		c.Header(headerKeyRequestID, id)
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。
// RequestIDミドルウェアが適用されていない場合は空文字列を返す。
func GetRequestID(c *gin.Context) string {
	requestID, _ := c.Get("request_id")
	if id, ok := requestID.(string); ok {
		return id
	}
	return ""
}
