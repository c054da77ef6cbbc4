package repository

import (
	"context"

	"Foodie-App/internal/domain/model"
)

type UserRepository interface {
	GetViewerProfile(ctx context.Context, viewerID string) (*model.ViewerProfile, error)
	SearchUsers(ctx context.Context, text string, excludedIDs []string, limit int) ([]model.UserProfile, error)
}
