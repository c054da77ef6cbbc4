package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/service"
)

// memoryContentRepository ContentQuery.Matches で絞り込むインメモリの投稿ストア
type memoryContentRepository struct {
	mu       sync.Mutex
	items    map[model.SourceTable][]model.ContentItem
	err      error
	ignore   bool // true なら条件を無視して全件返す
	recorded []model.ContentQuery
}

func newMemoryContentRepository() *memoryContentRepository {
	return &memoryContentRepository{items: map[model.SourceTable][]model.ContentItem{}}
}

func (r *memoryContentRepository) add(table model.SourceTable, items ...model.ContentItem) {
	r.items[table] = append(r.items[table], items...)
}

func (r *memoryContentRepository) calls() []model.ContentQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ContentQuery, len(r.recorded))
	copy(out, r.recorded)
	return out
}

func (r *memoryContentRepository) QueryContent(ctx context.Context, query model.ContentQuery) ([]model.ContentItem, error) {
	r.mu.Lock()
	r.recorded = append(r.recorded, query)
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	matched := []model.ContentItem{}
	for _, item := range r.items[query.Table] {
		if r.ignore || query.Matches(item) {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

type stubBlockRepository struct {
	ids []string
	err error
}

func (r *stubBlockRepository) GetBlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.ids, nil
}

type stubUserRepository struct {
	country    string
	profileErr error
	users      []model.UserProfile
	searchErr  error

	lastText     string
	lastExcluded []string
	lastLimit    int
}

func (r *stubUserRepository) GetViewerProfile(ctx context.Context, viewerID string) (*model.ViewerProfile, error) {
	if r.profileErr != nil {
		return nil, r.profileErr
	}
	return &model.ViewerProfile{ID: viewerID, PriorityCountry: r.country}, nil
}

func (r *stubUserRepository) SearchUsers(ctx context.Context, text string, excludedIDs []string, limit int) ([]model.UserProfile, error) {
	r.lastText = text
	r.lastExcluded = excludedIDs
	r.lastLimit = limit
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.users, nil
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func coords(lat, lng float64) *model.Coordinates {
	return &model.Coordinates{Lat: lat, Lng: lng}
}

func newTestSearcher(content *memoryContentRepository, blocks *stubBlockRepository, users *stubUserRepository, policy service.BlockListPolicy) *PostSearcher {
	return NewPostSearcher(
		service.NewBlockedUserFilter(blocks, policy),
		users,
		service.NewPostQueryBuilder(),
		service.NewDualSourceMerger(content),
	)
}
