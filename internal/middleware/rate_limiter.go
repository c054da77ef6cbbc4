package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter IP・メソッド・エンドポイントごとに window 内のリクエスト数を Redis で数える
// Redis に接続できない場合は制限せずに通す
func RateLimiter(client redis.Cmdable, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "rl:" + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("⚠️ Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		// 期限の無いキーは永久に 429 を返し続けるので、設定できなければキーを消す
		if count == 1 {
			ensureWindow(ctx, client, key, window)
		}

		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > maxRequests {
			ttl, err := client.TTL(ctx, key).Result()
			switch {
			case err == nil && ttl > 0:
				c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
			case err == nil && ttl == noExpiry:
				ensureWindow(ctx, client, key, window)
				c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests, please slow down",
			})
			return
		}

		c.Next()
	}
}

// noExpiry キーは存在するが期限が無い場合の TTL の応答
const noExpiry = time.Duration(-1)

// ensureWindow キーに期限を設定する。リクエストがキャンセルされても設定されるよう切り離したコンテキストを使う
func ensureWindow(ctx context.Context, client redis.Cmdable, key string, window time.Duration) {
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := client.Expire(opCtx, key, window).Err(); err != nil {
		log.Printf("⚠️ Rate limiter expire failed, resetting %s: %v", key, err)
		if err := client.Del(opCtx, key).Err(); err != nil {
			log.Printf("❌ Rate limiter reset failed for %s: %v", key, err)
		}
	}
}
