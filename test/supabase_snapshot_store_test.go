package test

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"GeoCoin-App/internal/repository"
)

// TestSupabaseSnapshotStore_Integration Supabase (PostgREST) ストアの統合テスト。
// geocoin_snapshots テーブルが事前に作成されている必要がある。
func TestSupabaseSnapshotStore_Integration(t *testing.T) {
	log.Printf("🧪 SupabaseSnapshotStore 統合テスト開始")

	client, err := setupSupabaseClient()
	if err != nil {
		t.Skipf("Supabaseに接続できないためスキップします: %v", err)
	}

	store := repository.NewSupabaseSnapshotStore(client)
	ctx := context.Background()
	key := fmt.Sprintf("test_player_state_%d", time.Now().UnixNano())

	_, found, err := store.Get(ctx, key)
	if err != nil {
		t.Skipf("Supabaseテーブルにアクセスできないためスキップします: %v", err)
	}
	if found {
		t.Fatalf("未保存キー %s が見つかってしまいました", key)
	}

	value := `{"position":{"lat":35.0116,"lng":135.7681},"inventory":[],"visible_cache_snapshots":[],"movement_trail":[[35.0116,135.7681]]}`
	if err := store.Set(ctx, key, value); err != nil {
		t.Fatalf("Setでエラーが発生: %v", err)
	}

	got, found, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Getでエラーが発生: %v", err)
	}
	if !found || got != value {
		t.Fatalf("保存した値が取得できません: found=%v got=%s", found, got)
	}

	log.Printf("✅ SupabaseSnapshotStore 統合テスト完了")
}
