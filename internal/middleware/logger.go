package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader リクエストIDのヘッダー
const RequestIDHeader = "X-Request-ID"

// RequestID クライアントが付けたIDを引き継ぎ、無ければ新しく発行する
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger リクエストごとにメソッド・パス・処理時間・ステータスを出力する
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		mark := "✅"
		switch {
		case status >= 500:
			mark = "❌"
		case status >= 400:
			mark = "⚠️"
		}
		log.Printf("%s [%s] %s %s - %v - %d",
			mark,
			c.GetString(RequestIDHeader),
			c.Request.Method,
			c.Request.URL.Path,
			time.Since(start),
			status,
		)
	}
}
