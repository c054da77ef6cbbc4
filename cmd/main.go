package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"Foodie-App/internal/domain/model"
	domainRepo "Foodie-App/internal/domain/repository"
	"Foodie-App/internal/domain/service"
	"Foodie-App/internal/handler"
	"Foodie-App/internal/infrastructure/cache"
	"Foodie-App/internal/infrastructure/database"
	"Foodie-App/internal/infrastructure/firestore"
	"Foodie-App/internal/repository"
	"Foodie-App/internal/usecase"
)

// stores 投稿・ブロック・ユーザー・タグの読み取り先
type stores struct {
	content domainRepo.ContentRepository
	blocks  domainRepo.BlockRepository
	users   domainRepo.UserRepository
	tags    domainRepo.TagCatalogRepository
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkers := map[string]handler.HealthChecker{}
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("⚠️ Close error: %v", err)
			}
		}
	}()

	// データストアの初期化
	backend := strings.ToLower(getEnv("CONTENT_BACKEND", "supabase"))
	var st stores
	switch backend {
	case "postgres":
		log.Println("🐘 Initializing PostgreSQL client...")
		pg, err := database.NewPostgreSQLClientWithRetry(3, 2*time.Second)
		if err != nil {
			log.Fatalf("PostgreSQLクライアント初期化失敗: %v", err)
		}
		closers = append(closers, pg.Close)
		checkers["postgres"] = pg
		st = stores{
			content: repository.NewPostgresContentRepository(pg),
			blocks:  repository.NewPostgresBlockRepository(pg),
			users:   repository.NewPostgresUserRepository(pg),
			tags:    repository.NewPostgresTagCatalogRepository(pg),
		}
	case "supabase":
		log.Println("Initializing Supabase client...")
		sb, err := database.NewSupabaseClient()
		if err != nil {
			log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
		}
		if err := sb.HealthCheck(); err != nil {
			log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
		}
		checkers["supabase"] = sb
		st = stores{
			content: repository.NewSupabaseContentRepository(sb),
			blocks:  repository.NewSupabaseBlockRepository(sb),
			users:   repository.NewSupabaseUserRepository(sb),
			tags:    repository.NewSupabaseTagCatalogRepository(sb),
		}
	default:
		log.Fatalf("CONTENT_BACKEND は supabase または postgres を指定してください: %q", backend)
	}

	// フィルタカタログのキャッシュ（Redis → Firestore → メモリの順に使えるものを選ぶ）
	var catalogCache domainRepo.FilterCatalogCacheRepository
	var rateLimitClient redis.Cmdable
	if os.Getenv("REDIS_URL") != "" {
		rc, err := cache.NewRedisClient(ctx)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, falling back: %v", err)
		} else {
			closers = append(closers, rc.Close)
			checkers["redis"] = rc
			catalogCache = repository.NewRedisFilterCatalogCache(rc.GetClient())
			rateLimitClient = rc.GetClient()
		}
	}
	if catalogCache == nil {
		if projectID := os.Getenv("FIRESTORE_PROJECT_ID"); projectID != "" {
			fc, err := firestore.NewFirestoreClient(ctx, projectID)
			if err != nil {
				log.Printf("⚠️ Firestore unavailable, falling back: %v", err)
			} else {
				closers = append(closers, fc.Close)
				catalogCache = repository.NewFirestoreFilterCatalogCache(fc.GetClient())
			}
		}
	}
	if catalogCache == nil {
		log.Println("📦 Using in-memory filter catalog cache")
		catalogCache = repository.NewMemoryFilterCatalogCache()
	}

	// サービス・ユースケースの組み立て
	policy := service.ParseBlockListPolicy(os.Getenv("BLOCK_LIST_POLICY"))
	log.Printf("🛡️ Block list policy: %s", policy)
	blockFilter := service.NewBlockedUserFilter(st.blocks, policy)
	builder := service.NewPostQueryBuilder().WithLimit(getEnvInt("SEARCH_LIMIT", model.DefaultSearchLimit))
	merger := service.NewDualSourceMerger(st.content)
	aggregator := service.NewGeoClusterAggregator(service.DefaultGeoClusterOptions())

	searcher := usecase.NewPostSearcher(blockFilter, st.users, builder, merger)
	searchUseCase := usecase.NewSearchUseCase(searcher)
	mapUseCase := usecase.NewMapUseCase(searcher, aggregator)
	userUseCase := usecase.NewUserSearchUseCase(blockFilter, st.users)
	catalogUseCase := usecase.NewFilterCatalogUseCase(st.tags, catalogCache, model.DefaultCatalogCacheTTL)

	if _, err := catalogUseCase.GetCatalog(ctx); err != nil {
		log.Printf("⚠️ Initial filter catalog load failed: %v", err)
	}

	// フィルタカタログの定期更新
	scheduler := cron.New()
	refreshSpec := getEnv("CATALOG_REFRESH_SPEC", "@every 10m")
	_, err := scheduler.AddFunc(refreshSpec, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Println("🔄 Refreshing filter catalog...")
		if _, err := catalogUseCase.Refresh(refreshCtx); err != nil {
			log.Printf("❌ Filter catalog refresh failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("⚠️ CATALOG_REFRESH_SPEC %q is invalid, scheduled refresh disabled: %v", refreshSpec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// HTTPサーバー
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterConfig{
		Search: handler.NewSearchHandler(searchUseCase, mapUseCase, userUseCase, catalogUseCase),
		LiveSearch: handler.NewLiveSearchHandler(searchUseCase, catalogUseCase, usecase.LiveSearchOptions{
			Debounce: time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", int(model.DefaultDebounceWindow/time.Millisecond))) * time.Millisecond,
			Limit:    getEnvInt("SEARCH_LIMIT", model.DefaultSearchLimit),
		}),
		Health:          handler.NewHealthHandler("Foodie-App", checkers),
		AllowOrigins:    splitList(os.Getenv("CORS_ALLOW_ORIGINS")),
		RateLimitClient: rateLimitClient,
		RateLimitMax:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitWindow: time.Minute,
	})

	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Foodie-App server starting on :%s (backend: %s)", port, backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("サーバー起動失敗: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️ %s=%q is not a positive integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
