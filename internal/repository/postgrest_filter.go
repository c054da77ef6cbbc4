package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/supabase-community/postgrest-go"

	"Foodie-App/internal/domain/model"
)

// contentColumns reviews / own_reviews から取得するカラム
const contentColumns = "id,created_at,user_id,rating,all_tags,location,review,caption,dish_name,anonymous,tags"

// restCondition PostgREST の1条件
// Negate は not.<op>、Column が "or" の場合は Or フィルタ（括弧は postgrest-go が付ける）として扱う
type restCondition struct {
	Column   string
	Operator string
	Value    string
	Negate   bool
}

const orColumn = "or"

// restTextColumns テキスト検索フィールドを PostgREST のカラム表記に変換する
var restTextColumns = map[string]string{
	model.FieldAddress:  "location->>address",
	model.FieldCaption:  "caption",
	model.FieldReview:   "review",
	model.FieldDishName: "dish_name",
}

// buildRestConditions ContentQuery を PostgREST の条件列に変換する
// 空の条件は出力しない
func buildRestConditions(q model.ContentQuery) ([]restCondition, error) {
	var conds []restCondition

	if q.SearchText != "" {
		fields := q.TextFields
		if len(fields) == 0 {
			fields = model.DefaultTextFields()
		}
		pattern := quoteRestValue("*" + escapeLike(q.SearchText) + "*")
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			column, ok := restTextColumns[field]
			if !ok {
				return nil, fmt.Errorf("未対応の検索フィールドです: %s", field)
			}
			parts = append(parts, column+".ilike."+pattern)
		}
		conds = append(conds, restCondition{Column: orColumn, Value: strings.Join(parts, ",")})
	}

	if len(q.TagIDs) > 0 {
		op := "cs"
		if q.TagMode == model.TagMatchOverlaps {
			op = "ov"
		}
		conds = append(conds, restCondition{Column: "all_tags", Operator: op, Value: "{" + joinQuoted(q.TagIDs) + "}"})
	}

	if len(q.Ratings) > 0 {
		values := make([]string, len(q.Ratings))
		for i, r := range q.Ratings {
			values[i] = strconv.Itoa(r)
		}
		conds = append(conds, restCondition{Column: "rating", Operator: "in", Value: "(" + strings.Join(values, ",") + ")"})
	}

	switch len(q.ExcludedAuthorIDs) {
	case 0:
	case 1:
		conds = append(conds, restCondition{Column: "user_id", Operator: "neq", Value: q.ExcludedAuthorIDs[0]})
	default:
		conds = append(conds, restCondition{Column: "user_id", Operator: "in", Value: "(" + joinQuoted(q.ExcludedAuthorIDs) + ")", Negate: true})
	}

	if q.Country != "" {
		conds = append(conds, restCondition{Column: "location->>country", Operator: "eq", Value: q.Country})
	}

	return conds, nil
}

// applyRestConditions 条件を FilterBuilder に適用し、created_at 降順と件数上限を付ける
func applyRestConditions(fb *postgrest.FilterBuilder, conds []restCondition, limit int) *postgrest.FilterBuilder {
	for _, c := range conds {
		switch {
		case c.Column == orColumn:
			fb = fb.Or(c.Value, "")
		case c.Negate:
			fb = fb.Not(c.Column, c.Operator, c.Value)
		default:
			fb = fb.Filter(c.Column, c.Operator, c.Value)
		}
	}

	fb = fb.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		fb = fb.Limit(limit, "")
	}
	return fb
}

// quoteRestValue PostgREST の予約文字（, . : ( ) "）を含んでも壊れないようダブルクォートで囲む
func quoteRestValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

func joinQuoted(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quoteRestValue(v)
	}
	return strings.Join(quoted, ",")
}
