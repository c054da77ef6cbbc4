package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/service"
)

// ViewerIDHeader 閲覧者IDを受け取るヘッダー（認証はアプリ側で済んでいる前提）
const ViewerIDHeader = "X-Viewer-ID"

const maxSearchLimit = 100

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func viewerID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(ViewerIDHeader))
}

// parseLimit limit パラメータ。未指定なら 0（デフォルト件数）
func parseLimit(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > maxSearchLimit {
		return 0, &ValidationError{Field: "limit", Message: fmt.Sprintf("limit must be an integer between 1 and %d", maxSearchLimit)}
	}
	return limit, nil
}

// parseFilters filter=<category>:<option> を繰り返し受け取り、カタログに照らして選択結果にする
// 同じ組み合わせが複数回来ても1回だけ選択する
func parseFilters(c *gin.Context, catalog []model.FilterCategory) (model.FilterSelection, []model.ActiveFilter, error) {
	state, err := service.NewFilterState(catalog, service.FilterStateOptions{})
	if err != nil {
		return model.FilterSelection{}, nil, err
	}

	seen := map[string]struct{}{}
	for _, raw := range c.QueryArray("filter") {
		for _, pair := range strings.Split(raw, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			categoryID, optionID, ok := strings.Cut(pair, ":")
			if !ok || categoryID == "" || optionID == "" {
				return model.FilterSelection{}, nil, &ValidationError{Field: "filter", Message: "filter must be <category>:<option>"}
			}
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}
			if !state.Toggle(categoryID, optionID) {
				return model.FilterSelection{}, nil, &ValidationError{Field: "filter", Message: "unknown filter " + pair}
			}
		}
	}

	return state.Selection(), state.ActiveFilters(), nil
}

// parseBoundingBox bbox=min_lng,min_lat,max_lng,max_lat。未指定なら nil
func parseBoundingBox(c *gin.Context) (*model.BoundingBox, error) {
	bbox := strings.TrimSpace(c.Query("bbox"))
	if bbox == "" {
		return nil, nil
	}

	coords := strings.Split(bbox, ",")
	if len(coords) != 4 {
		return nil, &ValidationError{Field: "bbox", Message: "bbox must contain 4 coordinates: min_lng,min_lat,max_lng,max_lat"}
	}

	names := []string{"min_lng", "min_lat", "max_lng", "max_lat"}
	values := make([]float64, 4)
	for i, s := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, &ValidationError{Field: "bbox", Message: "Invalid " + names[i] + " value"}
		}
		values[i] = v
	}

	box := &model.BoundingBox{MinLng: values[0], MinLat: values[1], MaxLng: values[2], MaxLat: values[3]}
	if box.MinLng >= box.MaxLng || box.MinLat >= box.MaxLat {
		return nil, &ValidationError{Field: "bbox", Message: "min values must be less than max values"}
	}
	if box.MinLng < -180 || box.MaxLng > 180 || box.MinLat < -90 || box.MaxLat > 90 {
		return nil, &ValidationError{Field: "bbox", Message: "coordinates out of range"}
	}
	return box, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_parameter",
		"message": err.Error(),
	})
}
