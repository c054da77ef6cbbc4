package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/infrastructure/database"
)

type PostgresContentRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresContentRepository(client *database.PostgreSQLClient) repository.ContentRepository {
	return &PostgresContentRepository{
		client: client,
	}
}

// ContentResult SELECT の結果を受け取るための構造体
type ContentResult struct {
	ID        string
	CreatedAt time.Time
	UserID    string
	Rating    sql.NullFloat64
	AllTags   []string
	Location  []byte
	Review    sql.NullString
	Caption   sql.NullString
	DishName  sql.NullString
	Anonymous sql.NullBool
	Tags      []byte
}

// toRowDB REST 経由の行と同じ正規化処理に乗せる
func (cr *ContentResult) toRowDB() contentRowDB {
	row := contentRowDB{
		ID:        cr.ID,
		CreatedAt: cr.CreatedAt,
		UserID:    cr.UserID,
		AllTags:   cr.AllTags,
		Location:  cr.Location,
		Tags:      cr.Tags,
	}
	if cr.Rating.Valid {
		row.Rating = &cr.Rating.Float64
	}
	if cr.Review.Valid {
		row.Review = &cr.Review.String
	}
	if cr.Caption.Valid {
		row.Caption = &cr.Caption.String
	}
	if cr.DishName.Valid {
		row.DishName = &cr.DishName.String
	}
	if cr.Anonymous.Valid {
		row.Anonymous = &cr.Anonymous.Bool
	}
	return row
}

func (r *PostgresContentRepository) QueryContent(ctx context.Context, query model.ContentQuery) ([]model.ContentItem, error) {
	stmt, args, err := buildContentSQL(query)
	if err != nil {
		return nil, err
	}

	rows, err := r.client.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s の検索失敗: %w", query.Table, err)
	}
	defer rows.Close()

	var results []contentRowDB
	for rows.Next() {
		var result ContentResult
		err := rows.Scan(&result.ID, &result.CreatedAt, &result.UserID, &result.Rating,
			pq.Array(&result.AllTags), &result.Location, &result.Review, &result.Caption,
			&result.DishName, &result.Anonymous, &result.Tags)
		if err != nil {
			return nil, fmt.Errorf("%s のスキャンエラー: %w", query.Table, err)
		}
		results = append(results, result.toRowDB())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s の行読み込みエラー: %w", query.Table, err)
	}

	return rowsToContentItems(results, query.Table), nil
}
