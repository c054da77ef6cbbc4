package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/infrastructure/database"
)

type PostgresUserRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresUserRepository(client *database.PostgreSQLClient) repository.UserRepository {
	return &PostgresUserRepository{
		client: client,
	}
}

func (r *PostgresUserRepository) GetViewerProfile(ctx context.Context, viewerID string) (*model.ViewerProfile, error) {
	var country sql.NullString
	err := r.client.DB.QueryRowContext(ctx, `SELECT priority_country FROM users WHERE id = $1`, viewerID).Scan(&country)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("閲覧者プロフィールの取得失敗: %w", err)
	}

	profile := &model.ViewerProfile{ID: viewerID}
	if country.Valid {
		profile.PriorityCountry = strings.TrimSpace(country.String)
	}
	return profile, nil
}

func (r *PostgresUserRepository) SearchUsers(ctx context.Context, text string, excludedIDs []string, limit int) ([]model.UserProfile, error) {
	query := `SELECT id, username, first_name, last_name, image_url FROM users
		WHERE (username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)
		AND NOT (id = ANY($2::text[]))
		ORDER BY username
		LIMIT $3`

	if excludedIDs == nil {
		excludedIDs = []string{}
	}
	if limit <= 0 {
		limit = model.DefaultSearchLimit
	}

	rows, err := r.client.DB.QueryContext(ctx, query, "%"+escapeLike(text)+"%", pq.Array(excludedIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("ユーザー検索失敗: %w", err)
	}
	defer rows.Close()

	users := []model.UserProfile{}
	for rows.Next() {
		var id string
		var username, first, last, imageURL sql.NullString
		if err := rows.Scan(&id, &username, &first, &last, &imageURL); err != nil {
			return nil, fmt.Errorf("ユーザー検索のスキャンエラー: %w", err)
		}
		users = append(users, model.UserProfile{
			ID:        id,
			Username:  username.String,
			FirstName: first.String,
			LastName:  last.String,
			ImageURL:  imageURL.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ユーザー検索の行読み込みエラー: %w", err)
	}
	return users, nil
}
