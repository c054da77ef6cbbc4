package service

import (
	"errors"
	"fmt"

	"Foodie-App/internal/domain/model"
)

// ErrDuplicateCategory カテゴリIDが重複している
var ErrDuplicateCategory = errors.New("フィルタカテゴリIDが重複しています")

// FilterStateOptions FilterState の挙動設定
type FilterStateOptions struct {
	// SingleSelectRating true の場合、評価は1つだけ選択できる
	SingleSelectRating bool
}

// FilterState 検索画面のフィルタ選択状態
// 1つの検索セッションが所有する前提で、ロックは呼び出し側で行う
type FilterState struct {
	categories []model.FilterCategory
	opts       FilterStateOptions
}

// NewFilterState シード構成をコピーして FilterState を作成
func NewFilterState(seed []model.FilterCategory, opts FilterStateOptions) (*FilterState, error) {
	seen := make(map[string]struct{}, len(seed))
	categories := make([]model.FilterCategory, 0, len(seed))
	for _, c := range seed {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, c.ID)
		}
		seen[c.ID] = struct{}{}
		categories = append(categories, c.Clone())
	}

	return &FilterState{
		categories: categories,
		opts:       opts,
	}, nil
}

// Toggle 指定した1つの選択肢の selected を反転する。見つからなければ false
func (s *FilterState) Toggle(categoryID, optionID string) bool {
	for ci := range s.categories {
		category := &s.categories[ci]
		if category.ID != categoryID {
			continue
		}
		for oi := range category.Options {
			option := &category.Options[oi]
			if option.ID != optionID {
				continue
			}
			option.Selected = !option.Selected
			if option.Selected && s.opts.SingleSelectRating && category.IsRating() {
				for other := range category.Options {
					if other != oi {
						category.Options[other].Selected = false
					}
				}
			}
			return true
		}
		return false
	}
	return false
}

// ActiveFilters 選択中のフィルタをカテゴリ順・選択肢順で返す
func (s *FilterState) ActiveFilters() []model.ActiveFilter {
	active := []model.ActiveFilter{}
	for _, category := range s.categories {
		for _, option := range category.Options {
			if option.Selected {
				active = append(active, model.ActiveFilter{
					CategoryID: category.ID,
					OptionID:   option.ID,
					Label:      option.Label,
				})
			}
		}
	}
	return active
}

// ActiveLabels 選択中フィルタの表示ラベル
func (s *FilterState) ActiveLabels() []string {
	active := s.ActiveFilters()
	labels := make([]string, len(active))
	for i, a := range active {
		labels[i] = a.Label
	}
	return labels
}

// Reset 全ての選択を解除する
func (s *FilterState) Reset() {
	for ci := range s.categories {
		for oi := range s.categories[ci].Options {
			s.categories[ci].Options[oi].Selected = false
		}
	}
}

// RemoveByLabel 表示ラベルが一致する選択肢を全カテゴリで解除する
func (s *FilterState) RemoveByLabel(label string) {
	for ci := range s.categories {
		for oi := range s.categories[ci].Options {
			if s.categories[ci].Options[oi].Label == label {
				s.categories[ci].Options[oi].Selected = false
			}
		}
	}
}

// Selection クエリ構築用に、タグIDと評価値に分けて返す
func (s *FilterState) Selection() model.FilterSelection {
	selection := model.FilterSelection{
		TagIDs:  []string{},
		Ratings: []int{},
	}
	seenTags := make(map[string]struct{})
	seenRatings := make(map[int]struct{})

	for _, category := range s.categories {
		rating := category.IsRating()
		for _, option := range category.Options {
			if !option.Selected {
				continue
			}
			if rating {
				value, ok := model.ParseRatingOption(option.ID)
				if !ok {
					continue
				}
				if _, dup := seenRatings[value]; !dup {
					seenRatings[value] = struct{}{}
					selection.Ratings = append(selection.Ratings, value)
				}
				continue
			}
			if _, dup := seenTags[option.ID]; !dup {
				seenTags[option.ID] = struct{}{}
				selection.TagIDs = append(selection.TagIDs, option.ID)
			}
		}
	}

	return selection
}

// Categories 現在の状態のコピー
func (s *FilterState) Categories() []model.FilterCategory {
	out := make([]model.FilterCategory, len(s.categories))
	for i, c := range s.categories {
		out[i] = c.Clone()
	}
	return out
}
