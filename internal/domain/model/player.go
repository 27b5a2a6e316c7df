package model

// PlayerState プレイヤーの全状態。移動のたびに1つのブロブとして永続化され、
// 起動時に丸ごと読み戻される。
type PlayerState struct {
	Position              Location     `json:"position"`                // 現在位置
	Inventory             []Coin       `json:"inventory"`               // 所持コイン（順序付き）
	VisibleCacheSnapshots []string     `json:"visible_cache_snapshots"` // 可視キャッシュのスナップショット
	MovementTrail         []TrailPoint `json:"movement_trail"`          // 移動履歴
}

// NewPlayerState 初期位置のみを持つ新しいプレイヤー状態を作成
func NewPlayerState(start Location) *PlayerState {
	return &PlayerState{
		Position:              start,
		Inventory:             []Coin{},
		VisibleCacheSnapshots: []string{},
		MovementTrail:         []TrailPoint{start.ToTrailPoint()},
	}
}

// HasCoin インベントリに指定 ID のコインがあるか
func (p *PlayerState) HasCoin(id string) bool {
	for _, coin := range p.Inventory {
		if coin.ID == id {
			return true
		}
	}
	return false
}

// RemoveCoin インベントリから指定 ID のコインを取り出す
func (p *PlayerState) RemoveCoin(id string) (Coin, bool) {
	for i, coin := range p.Inventory {
		if coin.ID == id {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return coin, true
		}
	}
	return Coin{}, false
}

// AddCoin インベントリにコインを追加する
func (p *PlayerState) AddCoin(coin Coin) {
	p.Inventory = append(p.Inventory, coin)
}
