package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"GeoCoin-App/internal/domain/repository"
	"GeoCoin-App/internal/infrastructure/database"
)

// PostgresSnapshotStore PostgreSQLを使用したスナップショットストア
type PostgresSnapshotStore struct {
	client *database.PostgreSQLClient
}

// NewPostgresSnapshotStore スキーマを初期化してPostgreSQLストアを作成
func NewPostgresSnapshotStore(client *database.PostgreSQLClient) (*PostgresSnapshotStore, error) {
	store := &PostgresSnapshotStore{client: client}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("スナップショットテーブルの初期化失敗: %w", err)
	}
	return store, nil
}

// initSchema スナップショットテーブルを作成する
func (s *PostgresSnapshotStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS geocoin_snapshots (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	_, err := s.client.DB.Exec(schema)
	return err
}

// Get キーの値を取得する。行がない場合は found=false。
func (s *PostgresSnapshotStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.client.DB.QueryRowContext(ctx,
		"SELECT value FROM geocoin_snapshots WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("スナップショットの取得失敗: %w", err)
	}
	return value, true, nil
}

// Set キーに値を保存する（UPSERT）
func (s *PostgresSnapshotStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.client.DB.ExecContext(ctx, `
		INSERT INTO geocoin_snapshots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("スナップショットの保存失敗: %w", err)
	}
	return nil
}

var _ repository.SnapshotStore = (*PostgresSnapshotStore)(nil)
