package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
)

const filterCatalogKey = "foodie:filter_catalog"

// RedisFilterCatalogCache Redisを使用したフィルタカタログのキャッシュ
type RedisFilterCatalogCache struct {
	client redis.Cmdable
}

func NewRedisFilterCatalogCache(client redis.Cmdable) repository.FilterCatalogCacheRepository {
	return &RedisFilterCatalogCache{
		client: client,
	}
}

func (c *RedisFilterCatalogCache) Get(ctx context.Context) ([]model.FilterCategory, bool, error) {
	data, err := c.client.Get(ctx, filterCatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("フィルタカタログの取得に失敗しました: %w", err)
	}

	var categories []model.FilterCategory
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, false, fmt.Errorf("フィルタカタログのJSONアンマーシャル失敗: %w", err)
	}
	return categories, true, nil
}

func (c *RedisFilterCatalogCache) Set(ctx context.Context, categories []model.FilterCategory, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("フィルタカタログのJSONマーシャル失敗: %w", err)
	}
	if err := c.client.Set(ctx, filterCatalogKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("フィルタカタログの保存に失敗しました: %w", err)
	}
	return nil
}

func (c *RedisFilterCatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, filterCatalogKey).Err(); err != nil {
		return fmt.Errorf("フィルタカタログの削除に失敗しました: %w", err)
	}
	return nil
}
