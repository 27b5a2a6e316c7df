package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"GeoCoin-App/internal/domain/repository"
)

// firestoreSnapshotCollection スナップショットを保存するコレクション名
const firestoreSnapshotCollection = "geocoinSnapshots"

// FirestoreSnapshotStore Firestoreを使用したスナップショットストア。
// 1キー = 1ドキュメントで保存する。
type FirestoreSnapshotStore struct {
	client *firestore.Client
}

// firestoreSnapshotDoc スナップショットドキュメントの構造
type firestoreSnapshotDoc struct {
	Value string `firestore:"value"`
}

// NewFirestoreSnapshotStore 新しいFirestoreSnapshotStoreインスタンスを作成
func NewFirestoreSnapshotStore(client *firestore.Client) *FirestoreSnapshotStore {
	return &FirestoreSnapshotStore{
		client: client,
	}
}

// Get キーの値を取得する。ドキュメントがない場合は found=false。
func (s *FirestoreSnapshotStore) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.client.Collection(firestoreSnapshotCollection).Doc(key).Get(ctx)
	if err != nil {
		// Firestoreのエラータイプをチェック
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("スナップショットの取得失敗: %w", err)
	}

	var data firestoreSnapshotDoc
	if err := doc.DataTo(&data); err != nil {
		return "", false, fmt.Errorf("スナップショットデータの変換失敗: %w", err)
	}
	return data.Value, true, nil
}

// Set キーに値を保存する（上書き）
func (s *FirestoreSnapshotStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.client.Collection(firestoreSnapshotCollection).Doc(key).Set(ctx, firestoreSnapshotDoc{Value: value})
	if err != nil {
		return fmt.Errorf("スナップショットの保存失敗: %w", err)
	}
	return nil
}

var _ repository.SnapshotStore = (*FirestoreSnapshotStore)(nil)
