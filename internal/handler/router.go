package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"Foodie-App/internal/middleware"
)

// RouterConfig ルーターの構成
type RouterConfig struct {
	Search     *SearchHandler
	LiveSearch *LiveSearchHandler
	Health     *HealthHandler

	AllowOrigins []string
	// RateLimitClient が nil の場合はレート制限を掛けない
	RateLimitClient redis.Cmdable
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewRouter APIのルーティングを設定した gin.Engine を作成
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	corsCfg := cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", ViewerIDHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	if cfg.Health != nil {
		api.GET("/health", cfg.Health.Check)
	}

	if cfg.Search != nil {
		search := api.Group("")
		if cfg.RateLimitClient != nil && cfg.RateLimitMax > 0 {
			search.Use(middleware.RateLimiter(cfg.RateLimitClient, cfg.RateLimitMax, cfg.RateLimitWindow))
		}
		search.GET("/filters", cfg.Search.GetFilters)
		search.POST("/filters/refresh", cfg.Search.RefreshFilters)
		search.GET("/search/posts", cfg.Search.SearchPosts)
		search.GET("/search/users", cfg.Search.SearchUsers)
		search.GET("/map/posts", cfg.Search.GetFoodMap)
	}

	if cfg.LiveSearch != nil {
		api.GET("/search/live", cfg.LiveSearch.Serve)
	}

	return r
}
