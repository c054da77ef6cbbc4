package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/middleware"
	"Foodie-App/internal/usecase"
)

type stubSearchUseCase struct {
	mu   sync.Mutex
	last *model.PostSearchRequest
	resp *model.PostSearchResponse
	err  error
}

func (s *stubSearchUseCase) SearchPosts(ctx context.Context, req *model.PostSearchRequest) (*model.PostSearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = req
	if s.resp != nil {
		return s.resp, s.err
	}
	items := []model.ContentItem{{ID: "post-" + req.SearchText, Source: model.SourceReviews}}
	return &model.PostSearchResponse{Items: items, Count: len(items)}, s.err
}

func (s *stubSearchUseCase) lastRequest() *model.PostSearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

type stubMapUseCase struct {
	last *model.MapSearchRequest
}

func (s *stubMapUseCase) GetFoodMap(ctx context.Context, req *model.MapSearchRequest) (*model.MapSearchResponse, error) {
	s.last = req
	return &model.MapSearchResponse{MapAggregate: model.MapAggregate{
		Clusters: []model.Cluster{{Key: "31.5204_74.3587", CenterLat: 31.5204, CenterLng: 74.3587, Count: 2, MemberIDs: []string{"a", "b"}}},
		Heatmap:  []model.HeatmapPoint{{Lat: 31.5204, Lng: 74.3587, Weight: 2, Intensity: 1}},
		Viewport: model.DefaultViewport(),
		Plotted:  2,
	}}, nil
}

type stubUserSearchUseCase struct {
	viewerID string
	text     string
	limit    int
}

func (s *stubUserSearchUseCase) SearchUsers(ctx context.Context, viewerID, text string, limit int) (*model.UserSearchResponse, error) {
	s.viewerID, s.text, s.limit = viewerID, text, limit
	return &model.UserSearchResponse{Users: []model.UserProfile{{ID: "u1", Username: "ali"}}}, nil
}

type stubCatalogUseCase struct {
	refreshed int
}

func (s *stubCatalogUseCase) GetCatalog(ctx context.Context) ([]model.FilterCategory, error) {
	return model.GetDefaultFilterCategories(), nil
}

func (s *stubCatalogUseCase) Refresh(ctx context.Context) ([]model.FilterCategory, error) {
	s.refreshed++
	return model.GetDefaultFilterCategories(), nil
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck() error { return s.err }

type testServer struct {
	router  *gin.Engine
	search  *stubSearchUseCase
	maps    *stubMapUseCase
	users   *stubUserSearchUseCase
	catalog *stubCatalogUseCase
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		search:  &stubSearchUseCase{},
		maps:    &stubMapUseCase{},
		users:   &stubUserSearchUseCase{},
		catalog: &stubCatalogUseCase{},
	}
	s.router = NewRouter(RouterConfig{
		Search:     NewSearchHandler(s.search, s.maps, s.users, s.catalog),
		LiveSearch: NewLiveSearchHandler(s.search, s.catalog, usecase.LiveSearchOptions{Debounce: 10 * time.Millisecond}),
		Health:     NewHealthHandler("Foodie-App", map[string]HealthChecker{"supabase": stubChecker{}}),
	})
	return s
}

func (s *testServer) get(path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestSearchPostsHandler(t *testing.T) {
	t.Run("検索語とフィルタを渡す", func(t *testing.T) {
		s := newTestServer()
		w := s.get("/api/search/posts?q=sushi&filter=rating:4star&filter=rating:5star,cuisine:japanese&filter=rating:4star&limit=10",
			map[string]string{ViewerIDHeader: "viewer-1"})
		require.Equal(t, http.StatusOK, w.Code)

		req := s.search.lastRequest()
		require.NotNil(t, req)
		assert.Equal(t, "viewer-1", req.ViewerID)
		assert.Equal(t, "sushi", req.SearchText)
		assert.Equal(t, 10, req.Limit)
		assert.Equal(t, []string{"japanese"}, req.Selection.TagIDs)
		assert.Equal(t, []int{5, 4}, req.Selection.Ratings)

		var body struct {
			Items         []model.ContentItem  `json:"items"`
			Count         int                  `json:"count"`
			ActiveFilters []model.ActiveFilter `json:"active_filters"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		assert.Equal(t, "post-sushi", body.Items[0].ID)
		assert.Len(t, body.ActiveFilters, 3)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("不明なフィルタは400", func(t *testing.T) {
		s := newTestServer()
		w := s.get("/api/search/posts?filter=cuisine:pizza_on_mars", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, s.search.lastRequest())
	})

	t.Run("フィルタの形式エラーは400", func(t *testing.T) {
		w := newTestServer().get("/api/search/posts?filter=cuisine", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("limitの範囲外は400", func(t *testing.T) {
		s := newTestServer()
		assert.Equal(t, http.StatusBadRequest, s.get("/api/search/posts?limit=0", nil).Code)
		assert.Equal(t, http.StatusBadRequest, s.get("/api/search/posts?limit=abc", nil).Code)
		assert.Equal(t, http.StatusBadRequest, s.get("/api/search/posts?limit=1000", nil).Code)
	})

	t.Run("検索失敗でも200と固定メッセージ", func(t *testing.T) {
		s := newTestServer()
		s.search.resp = &model.PostSearchResponse{Items: []model.ContentItem{}, Message: model.SearchFailedMessage}
		s.search.err = errors.New("pq: connection refused")

		w := s.get("/api/search/posts?q=sushi", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), model.SearchFailedMessage)
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})
}

func TestGetFoodMapHandler(t *testing.T) {
	t.Run("bbox を渡す", func(t *testing.T) {
		s := newTestServer()
		w := s.get("/api/map/posts?q=karahi&bbox=74.2,31.4,74.5,31.6", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, s.maps.last.Bounds)
		assert.Equal(t, model.BoundingBox{MinLng: 74.2, MinLat: 31.4, MaxLng: 74.5, MaxLat: 31.6}, *s.maps.last.Bounds)
		assert.Equal(t, "karahi", s.maps.last.SearchText)
		assert.Contains(t, w.Body.String(), `"latitudeDelta"`)
	})

	t.Run("不正な bbox は400", func(t *testing.T) {
		s := newTestServer()
		for _, bbox := range []string{"1,2,3", "a,2,3,4", "74.5,31.4,74.2,31.6", "-200,0,10,10"} {
			w := s.get("/api/map/posts?bbox="+bbox, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, bbox)
		}
	})

	t.Run("GeoJSON", func(t *testing.T) {
		w := newTestServer().get("/api/map/posts?format=geojson", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"FeatureCollection"`)
		assert.Contains(t, w.Body.String(), `"31.5204_74.3587"`)
	})
}

func TestSearchUsersHandler(t *testing.T) {
	s := newTestServer()
	w := s.get("/api/search/users?q=ali&limit=5", map[string]string{ViewerIDHeader: "me"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me", s.users.viewerID)
	assert.Equal(t, "ali", s.users.text)
	assert.Equal(t, 5, s.users.limit)
	assert.Contains(t, w.Body.String(), `"username":"ali"`)
}

func TestFiltersHandler(t *testing.T) {
	s := newTestServer()

	w := s.get("/api/filters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Categories []model.FilterCategory `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Categories, 4)

	req := httptest.NewRequest(http.MethodPost, "/api/filters/refresh", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.catalog.refreshed)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	healthy := NewRouter(RouterConfig{Health: NewHealthHandler("Foodie-App", map[string]HealthChecker{"supabase": stubChecker{}})})
	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	degraded := NewRouter(RouterConfig{Health: NewHealthHandler("Foodie-App", map[string]HealthChecker{"redis": stubChecker{err: errors.New("down")}})})
	w = httptest.NewRecorder()
	degraded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"unhealthy"`)
}

func TestLiveSearchHandler(t *testing.T) {
	s := newTestServer()
	server := httptest.NewServer(s.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/search/live"
	header := http.Header{}
	header.Set(ViewerIDHeader, "viewer-ws")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	require.NoError(t, conn.WriteJSON(model.LiveSearchCommand{Type: model.LiveSearchQuery, Text: "biryani"}))
	var event model.LiveSearchEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, model.LiveSearchResults, event.Type)
	assert.Equal(t, "biryani", event.Query)
	require.Len(t, event.Items, 1)
	assert.Equal(t, "post-biryani", event.Items[0].ID)
	assert.Equal(t, "viewer-ws", s.search.lastRequest().ViewerID)

	require.NoError(t, conn.WriteJSON(model.LiveSearchCommand{Type: model.LiveSearchToggle, CategoryID: "cuisine", OptionID: "bbq"}))
	require.NoError(t, conn.ReadJSON(&event))
	require.Len(t, event.ActiveFilters, 1)
	assert.Equal(t, "BBQ", event.ActiveFilters[0].Label)

	require.NoError(t, conn.WriteJSON(model.LiveSearchCommand{Type: "dance"}))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, model.LiveSearchError, event.Type)
}
