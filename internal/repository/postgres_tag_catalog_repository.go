package repository

import (
	"context"
	"database/sql"
	"fmt"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/infrastructure/database"
)

type PostgresTagCatalogRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresTagCatalogRepository(client *database.PostgreSQLClient) repository.TagCatalogRepository {
	return &PostgresTagCatalogRepository{
		client: client,
	}
}

func (r *PostgresTagCatalogRepository) GetAllTags(ctx context.Context) ([]model.TagRow, error) {
	rows, err := r.client.DB.QueryContext(ctx, `SELECT id, name, category FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("タグ一覧の取得失敗: %w", err)
	}
	defer rows.Close()

	tags := []model.TagRow{}
	for rows.Next() {
		var tag model.TagRow
		var category sql.NullString
		if err := rows.Scan(&tag.ID, &tag.Name, &category); err != nil {
			return nil, fmt.Errorf("タグ一覧のスキャンエラー: %w", err)
		}
		tag.Category = category.String
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("タグ一覧の行読み込みエラー: %w", err)
	}
	return tags, nil
}
