package model

import "fmt"

// Cell グリッド上の離散セル。符号付き整数の組 (i, j) で一意に識別される。
// Board のレジストリで正規化（インターン）されるため、同じ (i, j) に対する
// 参照は常に同一インスタンスになる。
type Cell struct {
	I int `json:"i"` // 緯度方向のインデックス（floor(lat / tileWidth)）
	J int `json:"j"` // 経度方向のインデックス（floor(lng / tileWidth)）
}

// Key セルの文字列キー（決定論的生成のシード、および可視セル集合のキー）
func (c Cell) Key() string {
	return fmt.Sprintf("%d,%d", c.I, c.J)
}

// StorageKey 永続ストア上のセル別スナップショットのキー
func (c Cell) StorageKey() string {
	return fmt.Sprintf("cache_%d_%d", c.I, c.J)
}
