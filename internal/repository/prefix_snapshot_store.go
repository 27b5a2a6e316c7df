package repository

import (
	"context"

	"GeoCoin-App/internal/domain/repository"
)

// PrefixSnapshotStore キーに固定プレフィックスを付けるデコレータ。
// 複数のセッションが1つのストアを共有するとき、セッションごとの
// 名前空間（"session_{id}_"）を与えるために使う。
type PrefixSnapshotStore struct {
	inner  repository.SnapshotStore
	prefix string
}

// NewPrefixSnapshotStore プレフィックス付きストアを作成
func NewPrefixSnapshotStore(inner repository.SnapshotStore, prefix string) *PrefixSnapshotStore {
	return &PrefixSnapshotStore{
		inner:  inner,
		prefix: prefix,
	}
}

// Get プレフィックスを付けたキーで内側のストアから取得する
func (p *PrefixSnapshotStore) Get(ctx context.Context, key string) (string, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

// Set プレフィックスを付けたキーで内側のストアに保存する
func (p *PrefixSnapshotStore) Set(ctx context.Context, key string, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

var _ repository.SnapshotStore = (*PrefixSnapshotStore)(nil)
