package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
)

// ErrBlockListUnavailable ブロックリストが取得できず、結果を返せない
var ErrBlockListUnavailable = errors.New("ブロックリストを取得できませんでした")

// BlockListPolicy ブロックリスト取得失敗時の扱い
type BlockListPolicy string

const (
	// BlockListFailClosed 取得失敗時は結果を返さない
	BlockListFailClosed BlockListPolicy = "fail_closed"
	// BlockListFailOpen 取得失敗時はブロック無しとして扱う
	BlockListFailOpen BlockListPolicy = "fail_open"
)

// ParseBlockListPolicy 環境変数の値からポリシーを決める（不明な値は fail_closed）
func ParseBlockListPolicy(value string) BlockListPolicy {
	if strings.EqualFold(strings.TrimSpace(value), string(BlockListFailOpen)) {
		return BlockListFailOpen
	}
	return BlockListFailClosed
}

// BlockedUserFilter 閲覧者がブロックしたユーザーを全ての検索結果から除外する
type BlockedUserFilter struct {
	blockRepo repository.BlockRepository
	policy    BlockListPolicy
}

// NewBlockedUserFilter 新しい BlockedUserFilter を作成
func NewBlockedUserFilter(blockRepo repository.BlockRepository, policy BlockListPolicy) *BlockedUserFilter {
	return &BlockedUserFilter{
		blockRepo: blockRepo,
		policy:    policy,
	}
}

// Policy 現在のポリシー
func (f *BlockedUserFilter) Policy() BlockListPolicy {
	return f.policy
}

// GetBlockedIDs 閲覧者のブロックリストを1回取得する（キャッシュしない）
func (f *BlockedUserFilter) GetBlockedIDs(ctx context.Context, viewerID string) ([]string, error) {
	if viewerID == "" {
		return []string{}, nil
	}

	ids, err := f.blockRepo.GetBlockedIDs(ctx, viewerID)
	if err != nil {
		if f.policy == BlockListFailOpen {
			log.Printf("⚠️  ブロックリスト取得失敗（ブロック無しとして続行）: viewer=%s, err=%v", viewerID, err)
			return []string{}, nil
		}
		log.Printf("❌ ブロックリスト取得失敗: viewer=%s, err=%v", viewerID, err)
		return nil, fmt.Errorf("%w: %v", ErrBlockListUnavailable, err)
	}

	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Exclude ブロック済みユーザーの投稿を取り除く
func (f *BlockedUserFilter) Exclude(items []model.ContentItem, blockedIDs []string) []model.ContentItem {
	if len(blockedIDs) == 0 {
		return items
	}
	blocked := toSet(blockedIDs)
	filtered := make([]model.ContentItem, 0, len(items))
	for _, item := range items {
		if _, ok := blocked[item.AuthorID]; ok {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// ExcludeUsers ブロック済みユーザーと閲覧者本人をユーザー検索結果から取り除く
func (f *BlockedUserFilter) ExcludeUsers(users []model.UserProfile, viewerID string, blockedIDs []string) []model.UserProfile {
	blocked := toSet(blockedIDs)
	filtered := make([]model.UserProfile, 0, len(users))
	for _, u := range users {
		if u.ID == viewerID {
			continue
		}
		if _, ok := blocked[u.ID]; ok {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
