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

type SearchUseCase interface {
	// SearchPosts 検索語とフィルタで reviews / own_reviews を横断検索する
	// 失敗時も空の結果と固定メッセージを返す。error はログと中断判定用
	SearchPosts(ctx context.Context, req *model.PostSearchRequest) (*model.PostSearchResponse, error)
}

// searchUseCaseImpl はSearchUseCaseの実装
type searchUseCaseImpl struct {
	searcher *PostSearcher
}

// NewSearchUseCase は新しいSearchUseCaseインスタンスを作成
func NewSearchUseCase(searcher *PostSearcher) SearchUseCase {
	return &searchUseCaseImpl{
		searcher: searcher,
	}
}

func (u *searchUseCaseImpl) SearchPosts(ctx context.Context, req *model.PostSearchRequest) (*model.PostSearchResponse, error) {
	result, err := u.searcher.Search(ctx, req)
	if err != nil {
		log.Printf("❌ 投稿検索に失敗 (viewer: %q, query: %q): %v", req.ViewerID, req.SearchText, err)
		return &model.PostSearchResponse{
			Items:   []model.ContentItem{},
			Message: model.SearchFailedMessage,
		}, err
	}

	items := make([]model.ContentItem, len(result.Items))
	for i, item := range result.Items {
		items[i] = item.Public()
	}

	return &model.PostSearchResponse{
		Items:         items,
		Count:         len(items),
		CountryScoped: result.CountryScoped,
	}, nil
}

// SearchResult 1回の検索サイクルの結果（匿名投稿の投稿者IDはまだ伏せていない）
type SearchResult struct {
	Items         []model.ContentItem
	CountryScoped bool
}

// PostSearcher 投稿検索と地図集計で共有する検索サイクル
type PostSearcher struct {
	blockFilter *service.BlockedUserFilter
	userRepo    repository.UserRepository
	builder     *service.PostQueryBuilder
	merger      *service.DualSourceMerger
}

// NewPostSearcher userRepo が nil の場合は国の絞り込みを行わない
func NewPostSearcher(
	blockFilter *service.BlockedUserFilter,
	userRepo repository.UserRepository,
	builder *service.PostQueryBuilder,
	merger *service.DualSourceMerger,
) *PostSearcher {
	return &PostSearcher{
		blockFilter: blockFilter,
		userRepo:    userRepo,
		builder:     builder,
		merger:      merger,
	}
}

// Search ブロック取得 → 閲覧者の国 → 条件構築 → 2テーブル並行検索 → 0件なら国を外して1回だけ再検索 → ブロック除外
func (u *PostSearcher) Search(ctx context.Context, req *model.PostSearchRequest) (*SearchResult, error) {
	log.Printf("🔍 投稿検索開始 (query: %q, tags: %d, ratings: %d)", req.SearchText, len(req.Selection.TagIDs), len(req.Selection.Ratings))

	blockedIDs, err := u.blockFilter.GetBlockedIDs(ctx, req.ViewerID)
	if err != nil {
		return nil, err
	}

	country := u.priorityCountry(ctx, req.ViewerID)

	queries := u.builder.BuildAll(service.PostQueryInput{
		SearchText:       req.SearchText,
		SelectedTagIDs:   req.Selection.TagIDs,
		SelectedRatings:  req.Selection.Ratings,
		BlockedAuthorIDs: blockedIDs,
		PriorityCountry:  country,
		Limit:            req.Limit,
	})

	items, err := u.merger.Merge(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗: %w", err)
	}

	countryScoped := service.AnyCountryScoped(queries)
	if len(items) == 0 && countryScoped {
		log.Printf("⚠️ %s の投稿が0件のため国の絞り込みを外して再検索", country)
		items, err = u.merger.Merge(ctx, service.WithoutCountry(queries))
		if err != nil {
			return nil, fmt.Errorf("投稿の再取得に失敗: %w", err)
		}
		countryScoped = false
	}

	items = u.blockFilter.Exclude(items, blockedIDs)
	// 件数上限はテーブルごとに掛かるので、マージ後にもう一度切り詰める
	if limit := queries[0].Limit; limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	log.Printf("✅ 投稿検索完了: %d件 (国で絞り込み: %t)", len(items), countryScoped)

	return &SearchResult{Items: items, CountryScoped: countryScoped}, nil
}

// priorityCountry 閲覧者の優先国。取得できなければ絞り込まない
func (u *PostSearcher) priorityCountry(ctx context.Context, viewerID string) string {
	if viewerID == "" || u.userRepo == nil {
		return ""
	}
	profile, err := u.userRepo.GetViewerProfile(ctx, viewerID)
	if err != nil {
		log.Printf("⚠️ 閲覧者プロフィールを取得できないため国の絞り込みなしで検索: %v", err)
		return ""
	}
	if profile == nil {
		return ""
	}
	return strings.TrimSpace(profile.PriorityCountry)
}
