package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Foodie-App/internal/domain/model"
)

// scriptedSearch 検索語ごとに挙動を差し替えられる SearchUseCase
type scriptedSearch struct {
	mu       sync.Mutex
	requests []model.PostSearchRequest
	release  map[string]chan struct{}
	fail     map[string]bool
}

func newScriptedSearch() *scriptedSearch {
	return &scriptedSearch{release: map[string]chan struct{}{}, fail: map[string]bool{}}
}

func (s *scriptedSearch) SearchPosts(ctx context.Context, req *model.PostSearchRequest) (*model.PostSearchResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, *req)
	wait := s.release[req.SearchText]
	fail := s.fail[req.SearchText]
	s.mu.Unlock()

	if wait != nil {
		<-wait
	}
	if fail {
		return &model.PostSearchResponse{Items: []model.ContentItem{}, Message: model.SearchFailedMessage}, errors.New("boom")
	}
	items := []model.ContentItem{{ID: "post-for-" + req.SearchText}}
	return &model.PostSearchResponse{Items: items, Count: len(items)}, nil
}

func (s *scriptedSearch) searched() []model.PostSearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PostSearchRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

type channelSink struct {
	events chan model.LiveSearchEvent
}

func newChannelSink() *channelSink {
	return &channelSink{events: make(chan model.LiveSearchEvent, 16)}
}

func (c *channelSink) Deliver(event model.LiveSearchEvent) error {
	c.events <- event
	return nil
}

func (c *channelSink) next(t *testing.T) model.LiveSearchEvent {
	t.Helper()
	select {
	case e := <-c.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("結果が届きませんでした")
		return model.LiveSearchEvent{}
	}
}

func (c *channelSink) assertNone(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case e := <-c.events:
		t.Fatalf("予期しない結果: %+v", e)
	case <-time.After(wait):
	}
}

func newTestSession(t *testing.T, search SearchUseCase, sink LiveSearchSink) *LiveSearchSession {
	t.Helper()
	session, err := NewLiveSearchSession(context.Background(), "viewer", search, model.GetDefaultFilterCategories(), sink, LiveSearchOptions{
		Debounce: 30 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session
}

func TestLiveSearchSession_Debounce(t *testing.T) {
	search := newScriptedSearch()
	sink := newChannelSink()
	session := newTestSession(t, search, sink)

	for _, text := range []string{"s", "su", "sus", "sushi"} {
		session.SetQuery(text)
		time.Sleep(5 * time.Millisecond)
	}

	event := sink.next(t)
	assert.Equal(t, model.LiveSearchResults, event.Type)
	assert.Equal(t, "sushi", event.Query)
	require.Len(t, event.Items, 1)
	assert.Equal(t, "post-for-sushi", event.Items[0].ID)

	sink.assertNone(t, 100*time.Millisecond)
	assert.Len(t, search.searched(), 1)
}

func TestLiveSearchSession_DiscardsStaleResults(t *testing.T) {
	search := newScriptedSearch()
	slow := make(chan struct{})
	search.release["slow"] = slow

	sink := newChannelSink()
	session := newTestSession(t, search, sink)

	session.SetQuery("slow")
	require.Eventually(t, func() bool { return len(search.searched()) == 1 }, time.Second, 5*time.Millisecond)

	session.SetQuery("fast")
	event := sink.next(t)
	assert.Equal(t, "fast", event.Query)

	close(slow)
	sink.assertNone(t, 100*time.Millisecond)
}

func TestLiveSearchSession_Filters(t *testing.T) {
	search := newScriptedSearch()
	sink := newChannelSink()
	session := newTestSession(t, search, sink)

	ok := session.Handle(model.LiveSearchCommand{Type: model.LiveSearchToggle, CategoryID: model.RatingCategoryID, OptionID: "4star"})
	require.True(t, ok)

	event := sink.next(t)
	require.Len(t, event.ActiveFilters, 1)
	assert.Equal(t, "4 Stars", event.ActiveFilters[0].Label)
	assert.Equal(t, []int{4}, search.searched()[0].Selection.Ratings)

	assert.False(t, session.Handle(model.LiveSearchCommand{Type: model.LiveSearchToggle, CategoryID: "cuisine", OptionID: "nope"}))
	assert.False(t, session.Handle(model.LiveSearchCommand{Type: "unknown"}))

	session.Handle(model.LiveSearchCommand{Type: model.LiveSearchRemove, Label: "4 Stars"})
	event = sink.next(t)
	assert.Empty(t, event.ActiveFilters)
	assert.Empty(t, session.ActiveFilters())
}

func TestLiveSearchSession_ErrorEvent(t *testing.T) {
	search := newScriptedSearch()
	search.fail["broken"] = true
	sink := newChannelSink()
	session := newTestSession(t, search, sink)

	session.SetQuery("broken")
	event := sink.next(t)
	assert.Equal(t, model.LiveSearchError, event.Type)
	assert.Equal(t, model.SearchFailedMessage, event.Message)
	assert.Empty(t, event.Items)
}

func TestLiveSearchSession_CloseSuppressesDelivery(t *testing.T) {
	search := newScriptedSearch()
	slow := make(chan struct{})
	search.release["slow"] = slow
	sink := newChannelSink()

	session, err := NewLiveSearchSession(context.Background(), "viewer", search, model.GetDefaultFilterCategories(), sink, LiveSearchOptions{
		Debounce: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	session.SetQuery("slow")
	require.Eventually(t, func() bool { return len(search.searched()) == 1 }, time.Second, 5*time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(slow)
	}()
	session.Close()

	sink.assertNone(t, 50*time.Millisecond)

	session.SetQuery("after-close")
	session.ResetFilters()
	sink.assertNone(t, 50*time.Millisecond)
	assert.Len(t, search.searched(), 1)
}
