package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/repository"
)

// DualSourceMerger reviews と own_reviews を並行に検索し、1つのリストにまとめる
type DualSourceMerger struct {
	contentRepo repository.ContentRepository
}

// NewDualSourceMerger 新しい DualSourceMerger を作成
func NewDualSourceMerger(contentRepo repository.ContentRepository) *DualSourceMerger {
	return &DualSourceMerger{
		contentRepo: contentRepo,
	}
}

// Merge 全ての条件を並行実行し、両方の完了を待ってから結合する
// どちらかが失敗した場合は全体を失敗とする。重複排除は行わない
func (m *DualSourceMerger) Merge(ctx context.Context, queries []model.ContentQuery) ([]model.ContentItem, error) {
	if len(queries) == 0 {
		return []model.ContentItem{}, nil
	}

	start := time.Now()
	results := make([][]model.ContentItem, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			items, err := m.contentRepo.QueryContent(gctx, query)
			if err != nil {
				return fmt.Errorf("%s の検索に失敗: %w", query.Table, err)
			}
			for j := range items {
				items[j].Source = query.Table
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("❌ 投稿検索の並行実行に失敗: %v", err)
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]model.ContentItem, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].CreatedAt.After(merged[b].CreatedAt)
	})

	log.Printf("✅ 投稿検索完了: %v (%dテーブル, %d件)", time.Since(start), len(queries), len(merged))
	return merged, nil
}
