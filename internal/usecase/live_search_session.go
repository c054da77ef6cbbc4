package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"Foodie-App/internal/domain/model"
	"Foodie-App/internal/domain/service"
)

// LiveSearchSink 検索結果の送信先（WebSocket 接続など）
type LiveSearchSink interface {
	Deliver(event model.LiveSearchEvent) error
}

// LiveSearchOptions セッションの設定
type LiveSearchOptions struct {
	Debounce time.Duration
	Limit    int
	Filters  service.FilterStateOptions
}

// LiveSearchSession 1つの検索画面（1接続）の状態
// 入力が確定するかフィルタが変わるたびに新しい番号で検索し、最新の結果だけを送る
type LiveSearchSession struct {
	viewerID  string
	search    SearchUseCase
	sink      LiveSearchSink
	limit     int
	debouncer *service.SearchDebouncer
	sequencer *service.RequestSequencer

	mu       sync.Mutex
	filters  *service.FilterState
	text     string
	inflight context.CancelFunc
	closed   bool

	sendMu sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLiveSearchSession セッションを作成し、確定した入力の受信を開始する
func NewLiveSearchSession(
	ctx context.Context,
	viewerID string,
	search SearchUseCase,
	catalog []model.FilterCategory,
	sink LiveSearchSink,
	opts LiveSearchOptions,
) (*LiveSearchSession, error) {
	filters, err := service.NewFilterState(catalog, opts.Filters)
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = model.DefaultDebounceWindow
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	s := &LiveSearchSession{
		viewerID:  viewerID,
		search:    search,
		sink:      sink,
		limit:     opts.Limit,
		debouncer: service.NewSearchDebouncer(opts.Debounce),
		sequencer: service.NewRequestSequencer(),
		filters:   filters,
		ctx:       sessionCtx,
		cancel:    cancel,
	}

	s.wg.Add(1)
	go s.listen()
	return s, nil
}

func (s *LiveSearchSession) listen() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case text := <-s.debouncer.Output():
			s.mu.Lock()
			s.text = text
			s.mu.Unlock()
			s.dispatch()
		}
	}
}

// SetQuery キー入力を受け取る。検索は入力が止まってから行う
func (s *LiveSearchSession) SetQuery(text string) {
	s.debouncer.Push(text)
}

// ToggleFilter 選択肢を切り替えて再検索する。存在しない選択肢なら false
func (s *LiveSearchSession) ToggleFilter(categoryID, optionID string) bool {
	s.mu.Lock()
	ok := s.filters.Toggle(categoryID, optionID)
	s.mu.Unlock()
	if ok {
		s.dispatch()
	}
	return ok
}

// ResetFilters 全ての選択を解除して再検索する
func (s *LiveSearchSession) ResetFilters() {
	s.mu.Lock()
	s.filters.Reset()
	s.mu.Unlock()
	s.dispatch()
}

// RemoveFilter 表示ラベルで選択を解除して再検索する
func (s *LiveSearchSession) RemoveFilter(label string) {
	s.mu.Lock()
	s.filters.RemoveByLabel(label)
	s.mu.Unlock()
	s.dispatch()
}

// ActiveFilters 選択中のフィルタ
func (s *LiveSearchSession) ActiveFilters() []model.ActiveFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.ActiveFilters()
}

// Handle クライアントからのメッセージを処理する
func (s *LiveSearchSession) Handle(cmd model.LiveSearchCommand) bool {
	switch cmd.Type {
	case model.LiveSearchQuery:
		s.SetQuery(cmd.Text)
	case model.LiveSearchToggle:
		return s.ToggleFilter(cmd.CategoryID, cmd.OptionID)
	case model.LiveSearchReset:
		s.ResetFilters()
	case model.LiveSearchRemove:
		s.RemoveFilter(cmd.Label)
	default:
		return false
	}
	return true
}

// dispatch 新しい番号で検索を始め、実行中の古い検索はキャンセルする
func (s *LiveSearchSession) dispatch() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	seq := s.sequencer.Next()
	if s.inflight != nil {
		s.inflight()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	req := &model.PostSearchRequest{
		ViewerID:   s.viewerID,
		SearchText: s.text,
		Selection:  s.filters.Selection(),
		Limit:      s.limit,
	}
	active := s.filters.ActiveFilters()
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		resp, err := s.search.SearchPosts(ctx, req)
		if ctx.Err() != nil {
			return
		}

		event := model.LiveSearchEvent{
			Type:          model.LiveSearchResults,
			Seq:           seq,
			Query:         req.SearchText,
			ActiveFilters: active,
			Items:         resp.Items,
			CountryScoped: resp.CountryScoped,
		}
		if err != nil {
			event.Type = model.LiveSearchError
			event.Message = resp.Message
		}
		s.deliver(event)
	}()
}

// deliver セッションが開いていて、まだ最新の番号である場合のみ送る
func (s *LiveSearchSession) deliver(event model.LiveSearchEvent) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed || !s.sequencer.IsLatest(event.Seq) {
		return
	}

	if err := s.sink.Deliver(event); err != nil {
		log.Printf("⚠️ ライブ検索結果の送信に失敗 (seq: %d): %v", event.Seq, err)
	}
}

// Close 実行中の検索をキャンセルし、以後の送信を止める
func (s *LiveSearchSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.inflight != nil {
		s.inflight()
	}
	s.mu.Unlock()

	s.debouncer.Close()
	s.cancel()

	// 送信中のものがあれば終わるのを待つ
	s.sendMu.Lock()
	s.sendMu.Unlock()

	s.wg.Wait()
}
