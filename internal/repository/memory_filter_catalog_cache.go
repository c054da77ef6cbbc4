package repository

import (
	"context"
	"sync"
	"time"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
)

// MemoryFilterCatalogCache プロセス内のフィルタカタログキャッシュ（Redis / Firestore が無い環境用）
type MemoryFilterCatalogCache struct {
	mu         sync.RWMutex
	categories []model.FilterCategory
	expireAt   time.Time
	now        func() time.Time
}

func NewMemoryFilterCatalogCache() repository.FilterCatalogCacheRepository {
	return newMemoryFilterCatalogCache(time.Now)
}

func newMemoryFilterCatalogCache(now func() time.Time) *MemoryFilterCatalogCache {
	return &MemoryFilterCatalogCache{now: now}
}

func (c *MemoryFilterCatalogCache) Get(ctx context.Context) ([]model.FilterCategory, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.categories == nil || !c.now().Before(c.expireAt) {
		return nil, false, nil
	}
	return cloneCategories(c.categories), true, nil
}

func (c *MemoryFilterCatalogCache) Set(ctx context.Context, categories []model.FilterCategory, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories = cloneCategories(categories)
	c.expireAt = c.now().Add(ttl)
	return nil
}

func (c *MemoryFilterCatalogCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories = nil
	c.expireAt = time.Time{}
	return nil
}

func cloneCategories(categories []model.FilterCategory) []model.FilterCategory {
	out := make([]model.FilterCategory, len(categories))
	for i, cat := range categories {
		out[i] = cat.Clone()
	}
	return out
}
