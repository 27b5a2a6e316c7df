package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemorySnapshotStore_GetSet 基本のGet/Set動作
func TestMemorySnapshotStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	_, found, err := store.Get(ctx, "cache_5_5")
	require.NoError(t, err)
	assert.False(t, found, "未保存キーはfound=falseであるべき")

	require.NoError(t, store.Set(ctx, "cache_5_5", `{"cell":{"i":5,"j":5},"coins":[]}`))

	value, found, err := store.Get(ctx, "cache_5_5")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"cell":{"i":5,"j":5},"coins":[]}`, value)

	// 上書き
	require.NoError(t, store.Set(ctx, "cache_5_5", "updated"))
	value, _, _ = store.Get(ctx, "cache_5_5")
	assert.Equal(t, "updated", value)
	assert.Equal(t, 1, store.Len())
}

// TestPrefixSnapshotStore_Namespacing プレフィックスでセッション名前空間が分かれる
func TestPrefixSnapshotStore_Namespacing(t *testing.T) {
	ctx := context.Background()
	shared := NewMemorySnapshotStore()

	first := NewPrefixSnapshotStore(shared, "session_a_")
	second := NewPrefixSnapshotStore(shared, "session_b_")

	require.NoError(t, first.Set(ctx, "player_state", "state-a"))
	require.NoError(t, second.Set(ctx, "player_state", "state-b"))

	valueA, foundA, err := first.Get(ctx, "player_state")
	require.NoError(t, err)
	require.True(t, foundA)
	assert.Equal(t, "state-a", valueA)

	valueB, _, _ := second.Get(ctx, "player_state")
	assert.Equal(t, "state-b", valueB)

	// 共有ストア上ではプレフィックス付きのキーで保存されている
	raw, found, _ := shared.Get(ctx, "session_a_player_state")
	require.True(t, found)
	assert.Equal(t, "state-a", raw)
}
