package repository

import (
	"context"
	"time"

	"Foodie-App/internal/domain/model"
)

// TagCatalogRepository tags テーブルからフィルタの選択肢を読み込む
type TagCatalogRepository interface {
	GetAllTags(ctx context.Context) ([]model.TagRow, error)
}

// FilterCatalogCacheRepository フィルタカタログのキャッシュ
// ok=false はキャッシュミス（期限切れを含む）
type FilterCatalogCacheRepository interface {
	Get(ctx context.Context) (categories []model.FilterCategory, ok bool, err error)
	Set(ctx context.Context, categories []model.FilterCategory, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
