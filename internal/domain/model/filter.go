package model

import "strings"

// FilterOption フィルタの選択肢
type FilterOption struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// FilterCategory フィルタのカテゴリ（料理ジャンル、設備、食事制限、評価など）
type FilterCategory struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Options []FilterOption `json:"options"`
}

// IsRating 評価カテゴリかどうか（オプションIDの先頭の数字を評価値として扱う）
func (c *FilterCategory) IsRating() bool {
	return strings.EqualFold(c.ID, RatingCategoryID) || strings.EqualFold(c.Name, RatingCategoryID)
}

// Clone 選択状態を含めたディープコピー
func (c FilterCategory) Clone() FilterCategory {
	options := make([]FilterOption, len(c.Options))
	copy(options, c.Options)
	c.Options = options
	return c
}

// ActiveFilter 選択中のフィルタ
type ActiveFilter struct {
	CategoryID string `json:"category_id"`
	OptionID   string `json:"option_id"`
	Label      string `json:"label"`
}

// FilterSelection クエリ構築に渡す選択結果
type FilterSelection struct {
	TagIDs  []string `json:"tag_ids"`
	Ratings []int    `json:"ratings"`
}

// ParseRatingOption "4star" のようなオプションIDから評価値を取り出す
func ParseRatingOption(optionID string) (int, bool) {
	if optionID == "" {
		return 0, false
	}
	c := optionID[0]
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// TagRow tags テーブルの行
type TagRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
