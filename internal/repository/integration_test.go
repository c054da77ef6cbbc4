package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/infrastructure/cache"
	"Foodie-App/internal/infrastructure/database"
	"Foodie-App/internal/infrastructure/firestore"
	repoimpl "Foodie-App/internal/repository"
)

// setupIntegrationEnv .env を読み込み、必要な環境変数が無ければスキップする
func setupIntegrationEnv(t *testing.T, required ...string) {
	t.Helper()
	if testing.Short() {
		t.Skip("short モードのため統合テストをスキップ")
	}
	_ = godotenv.Load("../../.env")
	for _, key := range required {
		if os.Getenv(key) == "" {
			t.Skipf("%s が設定されていないためスキップ", key)
		}
	}
}

func sampleQuery(table model.SourceTable) model.ContentQuery {
	return model.ContentQuery{
		Table:      table,
		TextFields: model.DefaultTextFields(),
		TagMode:    model.TagMatchContains,
		Limit:      5,
	}
}

func assertNewestFirst(t *testing.T, items []model.ContentItem) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt), "created_at の降順で返ること")
	}
}

func TestSupabaseContentRepositoryIntegration(t *testing.T) {
	setupIntegrationEnv(t, "SUPABASE_URL", "SUPABASE_ANON_KEY")

	client, err := database.NewSupabaseClient()
	require.NoError(t, err)
	repo := repoimpl.NewSupabaseContentRepository(client)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, table := range model.AllSourceTables() {
		items, err := repo.QueryContent(ctx, sampleQuery(table))
		require.NoError(t, err, table)
		assert.LessOrEqual(t, len(items), 5)
		assertNewestFirst(t, items)
		log.Printf("📊 %s: %d件", table, len(items))
	}
}

func TestPostgresContentRepositoryIntegration(t *testing.T) {
	setupIntegrationEnv(t, "DATABASE_URL")

	client, err := database.NewPostgreSQLClientWithRetry(5, time.Second)
	require.NoError(t, err)
	defer client.Close()
	repo := repoimpl.NewPostgresContentRepository(client)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	q := sampleQuery(model.SourceReviews)
	q.Ratings = []int{4, 5}
	items, err := repo.QueryContent(ctx, q)
	require.NoError(t, err)
	for _, item := range items {
		assert.Contains(t, []float64{4, 5}, item.Rating)
	}
	assertNewestFirst(t, items)
}

func TestRedisFilterCatalogCacheIntegration(t *testing.T) {
	setupIntegrationEnv(t, "REDIS_URL")

	ctx := context.Background()
	client, err := cache.NewRedisClient(ctx)
	require.NoError(t, err)
	defer client.Close()

	c := repoimpl.NewRedisFilterCatalogCache(client.GetClient())
	defaults := model.GetDefaultFilterCategories()

	require.NoError(t, c.Set(ctx, defaults, time.Minute))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, defaults, got)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFirestoreFilterCatalogCacheIntegration(t *testing.T) {
	setupIntegrationEnv(t, "FIRESTORE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS")

	ctx := context.Background()
	client, err := firestore.NewFirestoreClient(ctx, os.Getenv("FIRESTORE_PROJECT_ID"))
	require.NoError(t, err)
	defer client.Close()

	c := repoimpl.NewFirestoreFilterCatalogCache(client.GetClient())
	defaults := model.GetDefaultFilterCategories()

	require.NoError(t, c.Set(ctx, defaults, time.Minute))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, defaults, got)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
