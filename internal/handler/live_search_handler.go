package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/usecase"
)

const (
	liveSearchWriteWait    = 10 * time.Second
	liveSearchMaxMessageSz = 4096
)

// LiveSearchHandler 入力中の検索を WebSocket で配信するハンドラー
type LiveSearchHandler struct {
	searchUseCase  usecase.SearchUseCase
	catalogUseCase usecase.FilterCatalogUseCase
	opts           usecase.LiveSearchOptions
	upgrader       websocket.Upgrader
}

// NewLiveSearchHandler LiveSearchHandlerの新しいインスタンスを作成
func NewLiveSearchHandler(
	searchUseCase usecase.SearchUseCase,
	catalogUseCase usecase.FilterCatalogUseCase,
	opts usecase.LiveSearchOptions,
) *LiveSearchHandler {
	return &LiveSearchHandler{
		searchUseCase:  searchUseCase,
		catalogUseCase: catalogUseCase,
		opts:           opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // モバイルアプリからの接続は Origin を持たない
			},
		},
	}
}

// wsSink セッションの結果を WebSocket に書き込む。書き込みは1本に直列化する
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) Deliver(event model.LiveSearchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(liveSearchWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(event)
}

// Serve GET /api/search/live - WebSocket にアップグレードして検索セッションを開始する
func (h *LiveSearchHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	catalog, err := h.catalogUseCase.GetCatalog(c.Request.Context())
	if err != nil {
		catalog = model.GetDefaultFilterCategories()
	}

	sink := &wsSink{conn: conn}
	viewer := viewerID(c)
	session, err := usecase.NewLiveSearchSession(c.Request.Context(), viewer, h.searchUseCase, catalog, sink, h.opts)
	if err != nil {
		log.Printf("❌ ライブ検索セッションの作成に失敗: %v", err)
		_ = sink.Deliver(model.LiveSearchEvent{Type: model.LiveSearchError, Message: model.SearchFailedMessage})
		return
	}
	defer session.Close()

	log.Printf("🔌 ライブ検索セッション開始 (viewer: %q)", viewer)
	conn.SetReadLimit(liveSearchMaxMessageSz)

	for {
		var cmd model.LiveSearchCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ ライブ検索の読み込みエラー: %v", err)
			}
			break
		}
		if !session.Handle(cmd) {
			_ = sink.Deliver(model.LiveSearchEvent{
				Type:          model.LiveSearchError,
				ActiveFilters: session.ActiveFilters(),
				Items:         []model.ContentItem{},
				Message:       "unknown command or filter",
			})
		}
	}

	log.Printf("🔌 ライブ検索セッション終了 (viewer: %q)", viewer)
}
