package domain

import "context"

// BloomRepository is a probabilistic set of known article IDs used to turn
// lookups of IDs that were never stored into ErrNotFound without touching the store.
type BloomRepository interface {
	// Add 记录一个新文章 ID
	Add(ctx context.Context, id string) error

	// Exists false 表示该 ID 一定不存在; true 只表示可能存在
	Exists(ctx context.Context, id string) (bool, error)

	// BulkAdd 启动时批量预热
	BulkAdd(ctx context.Context, ids []string) error
}
