package repository

import (
	"context"

	"Foodie-App/internal/domain/model"
)

// ContentRepository reviews / own_reviews テーブルへの検索
type ContentRepository interface {
	// QueryContent 1テーブル分の条件で投稿を取得する（created_at 降順、Limit 件まで）
	QueryContent(ctx context.Context, query model.ContentQuery) ([]model.ContentItem, error)
}
