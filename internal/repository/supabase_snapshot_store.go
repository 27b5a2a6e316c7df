package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"GeoCoin-App/internal/database"
	"GeoCoin-App/internal/domain/repository"
)

// supabaseSnapshotTable スナップショットを保存するテーブル名
const supabaseSnapshotTable = "geocoin_snapshots"

// SupabaseSnapshotStore Supabase (PostgREST) を使用したスナップショットストア
type SupabaseSnapshotStore struct {
	client *database.SupabaseClient
}

// supabaseSnapshotRow geocoin_snapshots テーブルの行
type supabaseSnapshotRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewSupabaseSnapshotStore 新しいSupabaseSnapshotStoreインスタンスを作成
func NewSupabaseSnapshotStore(client *database.SupabaseClient) *SupabaseSnapshotStore {
	return &SupabaseSnapshotStore{
		client: client,
	}
}

// Get キーの値を取得する。行がない場合は found=false。
func (s *SupabaseSnapshotStore) Get(ctx context.Context, key string) (string, bool, error) {
	var rows []supabaseSnapshotRow
	data, _, err := s.client.GetClient().From(supabaseSnapshotTable).
		Select("*", "", false).Eq("key", key).Execute()
	if err != nil {
		return "", false, fmt.Errorf("スナップショットの取得失敗: %w", err)
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		return "", false, fmt.Errorf("スナップショット行のJSONアンマーシャル失敗: %w", err)
	}

	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

// Set キーに値を保存する（key をコンフリクトキーとする UPSERT）
func (s *SupabaseSnapshotStore) Set(ctx context.Context, key string, value string) error {
	row := supabaseSnapshotRow{Key: key, Value: value}
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("スナップショット行のJSONマーシャル失敗: %w", err)
	}

	_, _, err = s.client.GetClient().From(supabaseSnapshotTable).
		Insert(string(data), true, "key", "", "").Execute()
	if err != nil {
		return fmt.Errorf("スナップショットの保存失敗: %w", err)
	}
	return nil
}

var _ repository.SnapshotStore = (*SupabaseSnapshotStore)(nil)
