package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/infrastructure/database"
)

type SupabaseContentRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseContentRepository(client *database.SupabaseClient) repository.ContentRepository {
	return &SupabaseContentRepository{
		client: client,
	}
}

func (r *SupabaseContentRepository) QueryContent(ctx context.Context, query model.ContentQuery) ([]model.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conds, err := buildRestConditions(query)
	if err != nil {
		return nil, err
	}

	fb := r.client.GetClient().From(string(query.Table)).Select(contentColumns, "", false)
	data, _, err := applyRestConditions(fb, conds, query.Limit).Execute()
	if err != nil {
		return nil, fmt.Errorf("%s の検索失敗: %w", query.Table, err)
	}

	var rows []contentRowDB
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%s のJSONアンマーシャル失敗: %w", query.Table, err)
	}

	return rowsToContentItems(rows, query.Table), nil
}

// rowsToContentItems 壊れた行はスキップして残りを返す
func rowsToContentItems(rows []contentRowDB, table model.SourceTable) []model.ContentItem {
	items := make([]model.ContentItem, 0, len(rows))
	for i := range rows {
		row, err := rows[i].toContentRow()
		if err != nil {
			log.Printf("⚠️ %s の行をスキップ: %v", table, err)
			continue
		}
		items = append(items, row.ToContentItem(table))
	}
	return items
}
