package repository

import (
	"context"
	"sync"

	"GeoCoin-App/internal/domain/repository"
)

// MemorySnapshotStore メモリ上のスナップショットストア。
// デフォルトの実行モードとテストで使用する。
type MemorySnapshotStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemorySnapshotStore 空のメモリストアを作成
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		data: make(map[string]string),
	}
}

// Get キーの値を取得する
func (m *MemorySnapshotStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, found := m.data[key]
	return value, found, nil
}

// Set キーに値を保存する
func (m *MemorySnapshotStore) Set(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Len 保存されているキー数を返す（テスト用）
func (m *MemorySnapshotStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}

var _ repository.SnapshotStore = (*MemorySnapshotStore)(nil)
