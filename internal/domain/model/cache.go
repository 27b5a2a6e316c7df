package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptSnapshot 永続化されたスナップショット文字列が不正な場合のエラー。
// 呼び出し側は errors.Is で判定し、「保存なし」として再生成にフォールバックする。
var ErrCorruptSnapshot = errors.New("キャッシュスナップショットが破損しています")

// Cache 1つのセルに紐づくコインの入れ物。
// 可視性とは独立に永続ストア上で生き続け、可視化はあくまでビューである。
type Cache struct {
	Cell  *Cell  // 所属セル（Board で正規化済みの参照）
	Coins []Coin // 保持コイン（順序付き）
}

// CacheSnapshot キャッシュの永続化表現 {cell, coins}
type CacheSnapshot struct {
	Cell  Cell   `json:"cell"`
	Coins []Coin `json:"coins"`
}

// cacheSnapshotProbe フィールド欠落を検出するためのデコード用構造体
type cacheSnapshotProbe struct {
	Cell  *Cell   `json:"cell"`
	Coins *[]Coin `json:"coins"`
}

// IsEmpty コインを1枚も持っていないか
func (c *Cache) IsEmpty() bool {
	return len(c.Coins) == 0
}

// HasCoin 指定 ID のコインを保持しているか
func (c *Cache) HasCoin(id string) bool {
	for _, coin := range c.Coins {
		if coin.ID == id {
			return true
		}
	}
	return false
}

// RemoveCoin 指定 ID のコインを取り出す。見つからない場合は false。
// 呼び出し側は成功後ただちにスナップショットを更新すること。
func (c *Cache) RemoveCoin(id string) (Coin, bool) {
	for i, coin := range c.Coins {
		if coin.ID == id {
			c.Coins = append(c.Coins[:i], c.Coins[i+1:]...)
			return coin, true
		}
	}
	return Coin{}, false
}

// AddCoin コインを追加する
func (c *Cache) AddCoin(coin Coin) {
	c.Coins = append(c.Coins, coin)
}

// RemoveAll 全コインを取り出し、空のキャッシュにする
func (c *Cache) RemoveAll() []Coin {
	coins := c.Coins
	c.Coins = []Coin{}
	return coins
}

// SerializeCache キャッシュを自己完結したスナップショット文字列に変換する。
// DeserializeCache と往復可能（ラウンドトリップ則）。
func SerializeCache(c *Cache) (string, error) {
	snapshot := CacheSnapshot{Cell: *c.Cell, Coins: c.Coins}
	if snapshot.Coins == nil {
		snapshot.Coins = []Coin{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("スナップショットのJSONマーシャル失敗: %w", err)
	}
	return string(data), nil
}

// DeserializeCache スナップショット文字列から {cell, coins} を復元する。
// 構造が不正・フィールド欠落の場合は ErrCorruptSnapshot を返す（クラッシュさせない）。
func DeserializeCache(s string) (*CacheSnapshot, error) {
	var probe cacheSnapshotProbe
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if probe.Cell == nil || probe.Coins == nil {
		return nil, fmt.Errorf("%w: cell または coins フィールドがありません", ErrCorruptSnapshot)
	}
	return &CacheSnapshot{Cell: *probe.Cell, Coins: *probe.Coins}, nil
}
