package model

import "strings"

// TagMatchMode タグ条件の一致方法
type TagMatchMode string

const (
	TagMatchContains TagMatchMode = "contains" // 選択タグを全て含む（cs）
	TagMatchOverlaps TagMatchMode = "overlaps" // 選択タグのいずれかを含む（ov）
)

// 全文検索の対象フィールド
const (
	FieldAddress  = "address"
	FieldCaption  = "caption"
	FieldReview   = "review"
	FieldDishName = "dish_name"
)

// DefaultTextFields テキスト検索で OR 結合するフィールド
func DefaultTextFields() []string {
	return []string{FieldAddress, FieldCaption, FieldReview, FieldDishName}
}

// ContentQuery 1テーブル分の検索条件
// 空の条件はスキップ（全件一致）として扱う。並び順は常に created_at の降順
type ContentQuery struct {
	Table             SourceTable  `json:"table"`
	SearchText        string       `json:"search_text,omitempty"`
	TextFields        []string     `json:"text_fields"`
	TagIDs            []string     `json:"tag_ids,omitempty"`
	TagMode           TagMatchMode `json:"tag_mode"`
	Ratings           []int        `json:"ratings,omitempty"`
	ExcludedAuthorIDs []string     `json:"excluded_author_ids,omitempty"`
	Country           string       `json:"country,omitempty"`
	Limit             int          `json:"limit"`
}

// HasCountry 国による絞り込みがあるか
func (q ContentQuery) HasCountry() bool {
	return q.Country != ""
}

// WithoutCountry 国による絞り込みを外したコピー
func (q ContentQuery) WithoutCountry() ContentQuery {
	q.Country = ""
	return q
}

// Matches 条件をメモリ上で評価する（DB側のフィルタと同じ意味）
func (q ContentQuery) Matches(item ContentItem) bool {
	for _, blocked := range q.ExcludedAuthorIDs {
		if item.AuthorID == blocked {
			return false
		}
	}

	if q.SearchText != "" && !q.matchesText(item) {
		return false
	}

	if len(q.TagIDs) > 0 && !q.matchesTags(item.AllTags) {
		return false
	}

	if len(q.Ratings) > 0 {
		found := false
		for _, r := range q.Ratings {
			if item.Rating == float64(r) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q.Country != "" && item.Country != q.Country {
		return false
	}

	return true
}

func (q ContentQuery) matchesText(item ContentItem) bool {
	needle := strings.ToLower(q.SearchText)
	for _, field := range q.TextFields {
		var value string
		switch field {
		case FieldAddress:
			value = item.LocationText
		case FieldCaption:
			value = item.Caption
		case FieldReview:
			value = item.Review
		case FieldDishName:
			value = item.DishName
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

func (q ContentQuery) matchesTags(itemTags []string) bool {
	set := make(map[string]struct{}, len(itemTags))
	for _, t := range itemTags {
		set[t] = struct{}{}
	}

	if q.TagMode == TagMatchOverlaps {
		for _, t := range q.TagIDs {
			if _, ok := set[t]; ok {
				return true
			}
		}
		return false
	}

	for _, t := range q.TagIDs {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}
