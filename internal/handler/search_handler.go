package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/service"
	"Foodie-App/internal/usecase"
)

// SearchHandler 投稿検索・地図・ユーザー検索・フィルタ構成のHTTPハンドラー
type SearchHandler struct {
	searchUseCase  usecase.SearchUseCase
	mapUseCase     usecase.MapUseCase
	userUseCase    usecase.UserSearchUseCase
	catalogUseCase usecase.FilterCatalogUseCase
}

// NewSearchHandler SearchHandlerの新しいインスタンスを作成
func NewSearchHandler(
	searchUseCase usecase.SearchUseCase,
	mapUseCase usecase.MapUseCase,
	userUseCase usecase.UserSearchUseCase,
	catalogUseCase usecase.FilterCatalogUseCase,
) *SearchHandler {
	return &SearchHandler{
		searchUseCase:  searchUseCase,
		mapUseCase:     mapUseCase,
		userUseCase:    userUseCase,
		catalogUseCase: catalogUseCase,
	}
}

// postSearchResponse 投稿検索のレスポンス。選択中のフィルタを返してチップ表示に使う
type postSearchResponse struct {
	*model.PostSearchResponse
	ActiveFilters []model.ActiveFilter `json:"active_filters"`
}

// mapSearchResponse 地図検索のレスポンス
type mapSearchResponse struct {
	*model.MapSearchResponse
	ActiveFilters []model.ActiveFilter `json:"active_filters"`
}

// buildPostSearchRequest クエリパラメータから検索リクエストを組み立てる
func (h *SearchHandler) buildPostSearchRequest(c *gin.Context) (*model.PostSearchRequest, []model.ActiveFilter, error) {
	limit, err := parseLimit(c)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := h.catalogUseCase.GetCatalog(c.Request.Context())
	if err != nil {
		catalog = model.GetDefaultFilterCategories()
	}
	selection, active, err := parseFilters(c, catalog)
	if err != nil {
		return nil, nil, err
	}

	return &model.PostSearchRequest{
		ViewerID:   viewerID(c),
		SearchText: c.Query("q"),
		Selection:  selection,
		Limit:      limit,
	}, active, nil
}

// SearchPosts GET /api/search/posts - 投稿の横断検索
// 検索の失敗は 200 と空の結果・固定メッセージで返す
func (h *SearchHandler) SearchPosts(c *gin.Context) {
	req, active, err := h.buildPostSearchRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	response, _ := h.searchUseCase.SearchPosts(c.Request.Context(), req)
	c.JSON(http.StatusOK, postSearchResponse{PostSearchResponse: response, ActiveFilters: active})
}

// GetFoodMap GET /api/map/posts - 地図用のクラスタ・ヒートマップ・表示領域
// format=geojson の場合はクラスタを GeoJSON の FeatureCollection で返す
func (h *SearchHandler) GetFoodMap(c *gin.Context) {
	req, active, err := h.buildPostSearchRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	bounds, err := parseBoundingBox(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	response, _ := h.mapUseCase.GetFoodMap(c.Request.Context(), &model.MapSearchRequest{
		PostSearchRequest: *req,
		Bounds:            bounds,
	})

	if c.Query("format") == "geojson" {
		c.JSON(http.StatusOK, service.ClustersToFeatureCollection(response.MapAggregate))
		return
	}
	c.JSON(http.StatusOK, mapSearchResponse{MapSearchResponse: response, ActiveFilters: active})
}

// SearchUsers GET /api/search/users - ユーザー検索
func (h *SearchHandler) SearchUsers(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	response, _ := h.userUseCase.SearchUsers(c.Request.Context(), viewerID(c), c.Query("q"), limit)
	c.JSON(http.StatusOK, response)
}

// GetFilters GET /api/filters - 検索画面のフィルタ構成
func (h *SearchHandler) GetFilters(c *gin.Context) {
	categories, err := h.catalogUseCase.GetCatalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load filters",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// RefreshFilters POST /api/filters/refresh - キャッシュを破棄してフィルタ構成を作り直す
func (h *SearchHandler) RefreshFilters(c *gin.Context) {
	categories, err := h.catalogUseCase.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to refresh filters",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
