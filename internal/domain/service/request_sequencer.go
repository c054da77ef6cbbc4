package service

import "sync/atomic"

// RequestSequencer 発行した検索リクエストに単調増加の番号を振る
// 最新の番号以外のレスポンスは破棄する
type RequestSequencer struct {
	latest atomic.Uint64
}

// NewRequestSequencer 新しい RequestSequencer を作成
func NewRequestSequencer() *RequestSequencer {
	return &RequestSequencer{}
}

// Next 新しい番号を発行する
func (s *RequestSequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest seq が最後に発行された番号か
func (s *RequestSequencer) IsLatest(seq uint64) bool {
	return s.latest.Load() == seq
}

// Latest 最後に発行された番号
func (s *RequestSequencer) Latest() uint64 {
	return s.latest.Load()
}
