package model

// CreateSessionRequest セッション作成（または再開）リクエスト
type CreateSessionRequest struct {
	SessionID     string    `json:"session_id"`                         // 再開したいセッションID（省略時は新規発行）
	StartLocation *Location `json:"start_location" validate:"required"` // 初期位置
}

// MoveRequest プレイヤー移動リクエスト
type MoveRequest struct {
	Lat float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng float64 `json:"lng" validate:"required,min=-180,max=180"`
}

// TransferRequest コイン移動（収集・預け入れ）リクエスト。
// CoinID を省略した場合、収集はキャッシュの先頭コイン、
// 預け入れはインベントリの末尾コインが対象になる。
type TransferRequest struct {
	I      int    `json:"i"`
	J      int    `json:"j"`
	CoinID string `json:"coin_id"`
}

// 操作結果のステータス
const (
	StatusOK          = "ok"
	StatusNothingToDo = "nothing_to_do" // 空のキャッシュからの収集等、何もすることがない
)

// SessionResponse セッション操作の共通レスポンス
type SessionResponse struct {
	SessionID         string       `json:"session_id"`
	Status            string       `json:"status"`
	Message           string       `json:"message,omitempty"`
	Position          Location     `json:"position"`
	Inventory         []Coin       `json:"inventory"`
	MovementTrail     []TrailPoint `json:"movement_trail"`
	VisibleCacheCount int          `json:"visible_cache_count"`
}

// CacheView 可視キャッシュの表示用ビュー。is_empty は coins から導出される。
type CacheView struct {
	Cell      Cell   `json:"cell"`
	Coins     []Coin `json:"coins"`
	CoinCount int    `json:"coin_count"`
	IsEmpty   bool   `json:"is_empty"`
	BoundsWKT string `json:"bounds_wkt"` // セル矩形のWKT表現（描画コラボレータ向け）
}

// CacheListResponse 可視キャッシュ一覧レスポンス
type CacheListResponse struct {
	SessionID string      `json:"session_id"`
	Caches    []CacheView `json:"caches"`
}
