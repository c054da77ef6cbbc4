package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"Foodie-App/internal/domain/model"
)

// memoryContentRepository ContentQuery.Matches で絞り込むテスト用リポジトリ
type memoryContentRepository struct {
	mu      sync.Mutex
	tables  map[model.SourceTable][]model.ContentItem
	errs    map[model.SourceTable]error
	queries []model.ContentQuery
	delay   time.Duration
}

func newMemoryContentRepository() *memoryContentRepository {
	return &memoryContentRepository{
		tables: map[model.SourceTable][]model.ContentItem{},
		errs:   map[model.SourceTable]error{},
	}
}

func (r *memoryContentRepository) add(table model.SourceTable, items ...model.ContentItem) {
	r.tables[table] = append(r.tables[table], items...)
}

func (r *memoryContentRepository) QueryContent(ctx context.Context, query model.ContentQuery) ([]model.ContentItem, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	err := r.errs[query.Table]
	rows := append([]model.ContentItem(nil), r.tables[query.Table]...)
	r.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	var matched []model.ContentItem
	for _, item := range rows {
		if query.Matches(item) {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].CreatedAt.After(matched[b].CreatedAt)
	})
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (r *memoryContentRepository) recorded() []model.ContentQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ContentQuery(nil), r.queries...)
}

type stubBlockRepository struct {
	ids   []string
	err   error
	calls int
}

func (s *stubBlockRepository) GetBlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func coords(lat, lng float64) *model.Coordinates {
	return &model.Coordinates{Lat: lat, Lng: lng}
}
