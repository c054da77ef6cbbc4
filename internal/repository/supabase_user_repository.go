package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/infrastructure/database"
)

const userColumns = "id,username,first_name,last_name,image_url"

type SupabaseUserRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseUserRepository(client *database.SupabaseClient) repository.UserRepository {
	return &SupabaseUserRepository{
		client: client,
	}
}

type userRowDB struct {
	ID              string  `json:"id"`
	Username        *string `json:"username"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	ImageURL        *string `json:"image_url"`
	PriorityCountry *string `json:"priority_country"`
}

func (u *userRowDB) toUserProfile() model.UserProfile {
	return model.UserProfile{
		ID:        u.ID,
		Username:  derefString(u.Username),
		FirstName: derefString(u.FirstName),
		LastName:  derefString(u.LastName),
		ImageURL:  derefString(u.ImageURL),
	}
}

// GetViewerProfile 行が無い閲覧者は国の指定なしとして扱う
func (r *SupabaseUserRepository) GetViewerProfile(ctx context.Context, viewerID string) (*model.ViewerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := r.client.GetClient().From("users").Select("id,priority_country", "", false).Eq("id", viewerID).Execute()
	if err != nil {
		return nil, fmt.Errorf("閲覧者プロフィールの取得失敗: %w", err)
	}

	var rows []userRowDB
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("閲覧者プロフィールのJSONアンマーシャル失敗: %w", err)
	}

	profile := &model.ViewerProfile{ID: viewerID}
	if len(rows) > 0 {
		profile.PriorityCountry = strings.TrimSpace(derefString(rows[0].PriorityCountry))
	}
	return profile, nil
}

func (r *SupabaseUserRepository) SearchUsers(ctx context.Context, text string, excludedIDs []string, limit int) ([]model.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pattern := quoteRestValue("*" + text + "*")
	or := strings.Join([]string{
		"username.ilike." + pattern,
		"first_name.ilike." + pattern,
		"last_name.ilike." + pattern,
	}, ",")

	fb := r.client.GetClient().From("users").Select(userColumns, "", false).Or(or, "")
	switch len(excludedIDs) {
	case 0:
	case 1:
		fb = fb.Neq("id", excludedIDs[0])
	default:
		fb = fb.Not("id", "in", "("+joinQuoted(excludedIDs)+")")
	}
	if limit > 0 {
		fb = fb.Limit(limit, "")
	}

	data, _, err := fb.Execute()
	if err != nil {
		return nil, fmt.Errorf("ユーザー検索失敗: %w", err)
	}

	var rows []userRowDB
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("ユーザー検索結果のJSONアンマーシャル失敗: %w", err)
	}

	users := make([]model.UserProfile, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toUserProfile())
	}
	return users, nil
}
