package service

import (
	"strings"

	"Foodie-App/internal/domain/model"
)

// PostQueryInput 検索条件の入力
type PostQueryInput struct {
	SearchText       string
	SelectedTagIDs   []string
	SelectedRatings  []int
	BlockedAuthorIDs []string
	PriorityCountry  string
	Limit            int
}

// PostQueryBuilder 検索条件からテーブルごとの ContentQuery を組み立てる
type PostQueryBuilder struct {
	tagModes   map[model.SourceTable]model.TagMatchMode
	textFields []string
	limit      int
}

// NewPostQueryBuilder デフォルト構成の PostQueryBuilder を作成
// reviews は「全て含む」、own_reviews は「いずれかを含む」でタグを照合する
func NewPostQueryBuilder() *PostQueryBuilder {
	return &PostQueryBuilder{
		tagModes: map[model.SourceTable]model.TagMatchMode{
			model.SourceReviews:    model.TagMatchContains,
			model.SourceOwnReviews: model.TagMatchOverlaps,
		},
		textFields: model.DefaultTextFields(),
		limit:      model.DefaultSearchLimit,
	}
}

// WithTagMode テーブルごとのタグ照合方法を上書きする
func (b *PostQueryBuilder) WithTagMode(table model.SourceTable, mode model.TagMatchMode) *PostQueryBuilder {
	b.tagModes[table] = mode
	return b
}

// WithLimit デフォルトの取得件数を変更する
func (b *PostQueryBuilder) WithLimit(limit int) *PostQueryBuilder {
	if limit > 0 {
		b.limit = limit
	}
	return b
}

// Build 1テーブル分の条件を組み立てる
func (b *PostQueryBuilder) Build(in PostQueryInput, table model.SourceTable) model.ContentQuery {
	mode, ok := b.tagModes[table]
	if !ok {
		mode = model.TagMatchContains
	}

	limit := in.Limit
	if limit <= 0 {
		limit = b.limit
	}

	fields := make([]string, len(b.textFields))
	copy(fields, b.textFields)

	return model.ContentQuery{
		Table:             table,
		SearchText:        strings.TrimSpace(in.SearchText),
		TextFields:        fields,
		TagIDs:            dedupeStrings(in.SelectedTagIDs),
		TagMode:           mode,
		Ratings:           dedupeInts(in.SelectedRatings),
		ExcludedAuthorIDs: dedupeStrings(in.BlockedAuthorIDs),
		Country:           strings.TrimSpace(in.PriorityCountry),
		Limit:             limit,
	}
}

// BuildAll reviews と own_reviews の両方の条件を組み立てる
func (b *PostQueryBuilder) BuildAll(in PostQueryInput) []model.ContentQuery {
	tables := model.AllSourceTables()
	queries := make([]model.ContentQuery, 0, len(tables))
	for _, table := range tables {
		queries = append(queries, b.Build(in, table))
	}
	return queries
}

// WithoutCountry 全条件から国の絞り込みを外す
func WithoutCountry(queries []model.ContentQuery) []model.ContentQuery {
	relaxed := make([]model.ContentQuery, len(queries))
	for i, q := range queries {
		relaxed[i] = q.WithoutCountry()
	}
	return relaxed
}

// AnyCountryScoped いずれかの条件が国で絞り込まれているか
func AnyCountryScoped(queries []model.ContentQuery) bool {
	for _, q := range queries {
		if q.HasCountry() {
			return true
		}
	}
	return false
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dedupeInts(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
