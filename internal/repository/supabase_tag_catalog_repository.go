package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/infrastructure/database"
)

type SupabaseTagCatalogRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseTagCatalogRepository(client *database.SupabaseClient) repository.TagCatalogRepository {
	return &SupabaseTagCatalogRepository{
		client: client,
	}
}

func (r *SupabaseTagCatalogRepository) GetAllTags(ctx context.Context) ([]model.TagRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := r.client.GetClient().From("tags").Select("id,name,category", "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).Execute()
	if err != nil {
		return nil, fmt.Errorf("タグ一覧の取得失敗: %w", err)
	}

	var tags []model.TagRow
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("タグ一覧のJSONアンマーシャル失敗: %w", err)
	}
	return tags, nil
}
