package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/infrastructure/database"
)

type SupabaseBlockRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseBlockRepository(client *database.SupabaseClient) repository.BlockRepository {
	return &SupabaseBlockRepository{
		client: client,
	}
}

type blockedUserRow struct {
	BlockedID string `json:"blocked_id"`
}

func (r *SupabaseBlockRepository) GetBlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := r.client.GetClient().From("blocked_users").Select("blocked_id", "", false).Eq("blocker_id", blockerID).Execute()
	if err != nil {
		return nil, fmt.Errorf("ブロックリストの取得失敗: %w", err)
	}

	var rows []blockedUserRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("ブロックリストのJSONアンマーシャル失敗: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.BlockedID != "" {
			ids = append(ids, row.BlockedID)
		}
	}
	return ids, nil
}

type PostgresBlockRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresBlockRepository(client *database.PostgreSQLClient) repository.BlockRepository {
	return &PostgresBlockRepository{
		client: client,
	}
}

func (r *PostgresBlockRepository) GetBlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	rows, err := r.client.DB.QueryContext(ctx, `SELECT blocked_id FROM blocked_users WHERE blocker_id = $1`, blockerID)
	if err != nil {
		return nil, fmt.Errorf("ブロックリストの取得失敗: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ブロックリストのスキャンエラー: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ブロックリストの行読み込みエラー: %w", err)
	}
	return ids, nil
}
