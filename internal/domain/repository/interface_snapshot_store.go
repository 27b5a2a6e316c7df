package repository

import "context"

// SnapshotStore 文字列キーバリューの永続ストア。
// セル別キャッシュスナップショット（"cache_{i}_{j}"）と
// プレイヤー状態ブロブ（"player_state"）の保存先。
// キー間のトランザクション性は仮定しない。
type SnapshotStore interface {
	// Get キーの値を取得する。存在しない場合は found=false（エラーではない）。
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set キーに値を保存する（上書き）。
	Set(ctx context.Context, key string, value string) error
}
