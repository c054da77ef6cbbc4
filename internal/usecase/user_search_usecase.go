package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
	"Foodie-App/internal/domain/service"
)

type UserSearchUseCase interface {
	// SearchUsers ユーザー名・氏名で検索する。ブロックしたユーザーと閲覧者自身は含めない
	SearchUsers(ctx context.Context, viewerID, text string, limit int) (*model.UserSearchResponse, error)
}

// userSearchUseCaseImpl はUserSearchUseCaseの実装
type userSearchUseCaseImpl struct {
	blockFilter *service.BlockedUserFilter
	userRepo    repository.UserRepository
}

// NewUserSearchUseCase は新しいUserSearchUseCaseインスタンスを作成
func NewUserSearchUseCase(blockFilter *service.BlockedUserFilter, userRepo repository.UserRepository) UserSearchUseCase {
	return &userSearchUseCaseImpl{
		blockFilter: blockFilter,
		userRepo:    userRepo,
	}
}

func (u *userSearchUseCaseImpl) SearchUsers(ctx context.Context, viewerID, text string, limit int) (*model.UserSearchResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &model.UserSearchResponse{Users: []model.UserProfile{}}, nil
	}
	if limit <= 0 {
		limit = model.DefaultSearchLimit
	}

	users, err := u.search(ctx, viewerID, text, limit)
	if err != nil {
		log.Printf("❌ ユーザー検索に失敗 (query: %q): %v", text, err)
		return &model.UserSearchResponse{
			Users:   []model.UserProfile{},
			Message: model.UserSearchFailedMessage,
		}, err
	}
	return &model.UserSearchResponse{Users: users}, nil
}

func (u *userSearchUseCaseImpl) search(ctx context.Context, viewerID, text string, limit int) ([]model.UserProfile, error) {
	blockedIDs, err := u.blockFilter.GetBlockedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	excluded := make([]string, 0, len(blockedIDs)+1)
	excluded = append(excluded, blockedIDs...)
	if viewerID != "" {
		excluded = append(excluded, viewerID)
	}

	users, err := u.userRepo.SearchUsers(ctx, text, excluded, limit)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}

	users = u.blockFilter.ExcludeUsers(users, viewerID, blockedIDs)
	log.Printf("✅ ユーザー検索完了: %d件", len(users))
	return users, nil
}
