package repository

import "context"

// BlockRepository blocked_users テーブル（blocker_id, blocked_id）の読み取り
type BlockRepository interface {
	GetBlockedIDs(ctx context.Context, blockerID string) ([]string, error)
}
