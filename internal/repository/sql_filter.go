package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"Foodie-App/internal/domain/model"
)

// sqlTextColumns テキスト検索フィールドを SQL の式に変換する
var sqlTextColumns = map[string]string{
	model.FieldAddress:  "location->>'address'",
	model.FieldCaption:  "caption",
	model.FieldReview:   "review",
	model.FieldDishName: "dish_name",
}

// buildContentSQL ContentQuery を SELECT 文とプレースホルダ引数に変換する
// テーブル名は既知の2テーブルのみ許可する
func buildContentSQL(q model.ContentQuery) (string, []interface{}, error) {
	switch q.Table {
	case model.SourceReviews, model.SourceOwnReviews:
	default:
		return "", nil, fmt.Errorf("未対応のテーブルです: %q", q.Table)
	}

	var (
		where []string
		args  []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.SearchText != "" {
		fields := q.TextFields
		if len(fields) == 0 {
			fields = model.DefaultTextFields()
		}
		placeholder := next("%" + escapeLike(q.SearchText) + "%")
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			column, ok := sqlTextColumns[field]
			if !ok {
				return "", nil, fmt.Errorf("未対応の検索フィールドです: %s", field)
			}
			parts = append(parts, column+" ILIKE "+placeholder)
		}
		where = append(where, "("+strings.Join(parts, " OR ")+")")
	}

	if len(q.TagIDs) > 0 {
		op := "@>"
		if q.TagMode == model.TagMatchOverlaps {
			op = "&&"
		}
		where = append(where, fmt.Sprintf("all_tags %s %s::text[]", op, next(pq.Array(q.TagIDs))))
	}

	if len(q.Ratings) > 0 {
		ratings := make([]int64, len(q.Ratings))
		for i, r := range q.Ratings {
			ratings[i] = int64(r)
		}
		where = append(where, fmt.Sprintf("rating = ANY(%s::int[])", next(pq.Array(ratings))))
	}

	switch len(q.ExcludedAuthorIDs) {
	case 0:
	case 1:
		where = append(where, "user_id <> "+next(q.ExcludedAuthorIDs[0]))
	default:
		where = append(where, fmt.Sprintf("NOT (user_id = ANY(%s::text[]))", next(pq.Array(q.ExcludedAuthorIDs))))
	}

	if q.Country != "" {
		where = append(where, "location->>'country' = "+next(q.Country))
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, created_at, user_id, rating, all_tags, location, review, caption, dish_name, anonymous, tags FROM ")
	sb.WriteString(string(q.Table))
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(next(q.Limit))
	}

	return sb.String(), args, nil
}

// escapeLike LIKE のワイルドカードを文字として扱う
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
