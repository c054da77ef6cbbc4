package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
)

type FilterCatalogUseCase interface {
	// GetCatalog 検索画面のフィルタ構成を返す（キャッシュがあればキャッシュから）
	GetCatalog(ctx context.Context) ([]model.FilterCategory, error)
	// Refresh キャッシュを破棄して tags テーブルから作り直す
	Refresh(ctx context.Context) ([]model.FilterCategory, error)
}

// filterCatalogUseCaseImpl はFilterCatalogUseCaseの実装
type filterCatalogUseCaseImpl struct {
	tagRepo repository.TagCatalogRepository
	cache   repository.FilterCatalogCacheRepository
	ttl     time.Duration
}

// NewFilterCatalogUseCase tagRepo が nil の場合はデフォルト構成のみを返す
func NewFilterCatalogUseCase(
	tagRepo repository.TagCatalogRepository,
	cache repository.FilterCatalogCacheRepository,
	ttl time.Duration,
) FilterCatalogUseCase {
	if ttl <= 0 {
		ttl = model.DefaultCatalogCacheTTL
	}
	return &filterCatalogUseCaseImpl{
		tagRepo: tagRepo,
		cache:   cache,
		ttl:     ttl,
	}
}

func (u *filterCatalogUseCaseImpl) GetCatalog(ctx context.Context) ([]model.FilterCategory, error) {
	if u.cache != nil {
		categories, ok, err := u.cache.Get(ctx)
		switch {
		case err != nil:
			log.Printf("⚠️ フィルタカタログのキャッシュ読み込みに失敗: %v", err)
		case ok:
			return categories, nil
		}
	}
	return u.load(ctx)
}

func (u *filterCatalogUseCaseImpl) Refresh(ctx context.Context) ([]model.FilterCategory, error) {
	if u.cache != nil {
		if err := u.cache.Invalidate(ctx); err != nil {
			log.Printf("⚠️ フィルタカタログのキャッシュ削除に失敗: %v", err)
		}
	}
	return u.load(ctx)
}

// load tags テーブルを読み込んでデフォルト構成に合成し、キャッシュに保存する
// tags が読めない場合はデフォルト構成を返し、キャッシュには保存しない
func (u *filterCatalogUseCaseImpl) load(ctx context.Context) ([]model.FilterCategory, error) {
	defaults := model.GetDefaultFilterCategories()
	if u.tagRepo == nil {
		return defaults, nil
	}

	tags, err := u.tagRepo.GetAllTags(ctx)
	if err != nil {
		log.Printf("⚠️ タグ一覧を取得できないためデフォルトのフィルタ構成を使用: %v", err)
		return defaults, nil
	}

	categories := MergeTagCatalog(defaults, tags)
	if u.cache != nil {
		if err := u.cache.Set(ctx, categories, u.ttl); err != nil {
			log.Printf("⚠️ フィルタカタログのキャッシュ保存に失敗: %v", err)
		}
	}
	log.Printf("✅ フィルタカタログを更新: %d カテゴリ, タグ %d件", len(categories), len(tags))
	return categories, nil
}

// MergeTagCatalog tags の行をカテゴリごとにデフォルト構成へ追加する
// 既にあるIDの選択肢は追加しない。評価カテゴリは固定で tags からは増やさない
func MergeTagCatalog(defaults []model.FilterCategory, tags []model.TagRow) []model.FilterCategory {
	categories := make([]model.FilterCategory, len(defaults))
	index := make(map[string]int, len(defaults))
	seen := make(map[string]map[string]struct{}, len(defaults))
	for i, c := range defaults {
		categories[i] = c.Clone()
		index[c.ID] = i
		seen[c.ID] = make(map[string]struct{}, len(c.Options))
		for _, o := range c.Options {
			seen[c.ID][o.ID] = struct{}{}
		}
	}

	for _, tag := range tags {
		categoryID := strings.ToLower(strings.TrimSpace(tag.Category))
		if categoryID == "" || tag.ID == "" || categoryID == model.RatingCategoryID {
			continue
		}

		i, ok := index[categoryID]
		if !ok {
			categories = append(categories, model.FilterCategory{
				ID:      categoryID,
				Name:    model.GetCategoryName(categoryID),
				Options: []model.FilterOption{},
			})
			i = len(categories) - 1
			index[categoryID] = i
			seen[categoryID] = map[string]struct{}{}
		}

		if _, dup := seen[categoryID][tag.ID]; dup {
			continue
		}
		seen[categoryID][tag.ID] = struct{}{}

		label := strings.TrimSpace(tag.Name)
		if label == "" {
			label = tag.ID
		}
		categories[i].Options = append(categories[i].Options, model.FilterOption{ID: tag.ID, Label: label})
	}

	return categories
}
