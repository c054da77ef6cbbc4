package service

import (
	"strings"
	"sync"
	"time"
)

// SearchDebouncer キー入力ごとの検索文字列を、一定時間入力が止まってから1回だけ流す
// 空文字（クリア）はタイマーを待たずに即座に流す
type SearchDebouncer struct {
	window time.Duration
	out    chan string

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	closed     bool
}

// NewSearchDebouncer 待ち時間を指定して SearchDebouncer を作成
func NewSearchDebouncer(window time.Duration) *SearchDebouncer {
	return &SearchDebouncer{
		window: window,
		out:    make(chan string, 1),
	}
}

// Output 確定した検索文字列を受け取るチャンネル
func (d *SearchDebouncer) Output() <-chan string {
	return d.out
}

// Push 入力値を受け取り、保留中の発火をキャンセルしてタイマーを張り直す
func (d *SearchDebouncer) Push(text string) {
	text = strings.TrimSpace(text)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.generation++
	gen := d.generation
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if text == "" {
		d.mu.Unlock()
		d.emit(gen, "")
		return
	}

	d.timer = time.AfterFunc(d.window, func() {
		d.emit(gen, text)
	})
	d.mu.Unlock()
}

// emit 世代の確認と送信を同じロックの中で行う
// 読まれていない古い値は捨てて最新の値に置き換えるので、送信でブロックしない
func (d *SearchDebouncer) emit(gen uint64, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.generation {
		return
	}

	select {
	case <-d.out:
	default:
	}
	d.out <- text
}

// Close 保留中の発火を破棄し、以後の入力を無視する
func (d *SearchDebouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
