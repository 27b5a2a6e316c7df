package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"GeoCoin-App/internal/domain/model"
	"GeoCoin-App/internal/domain/repository"
)

// CacheWorldService 可視ウィンドウ内のキャッシュ集合を管理する。
// セルごとの状態遷移は 未訪問 → 休眠（スナップショットあり・非可視）⇔ 可視。
// 出現判定が偽のセルは決定論的に永遠にスキップされる（純粋で安価なため
// 毎回再計算し、結果をキャッシュしない）。
type CacheWorldService struct {
	board *Board
	store repository.SnapshotStore
	cfg   *model.GameConfig

	// 可視キャッシュのセルキー付きルックアップ。
	// 1セルにつき高々1つの可視キャッシュという不変条件はこのマップが保証する。
	visible map[model.Cell]*model.Cache
}

// NewCacheWorldService 新しいCacheWorldServiceを作成
func NewCacheWorldService(board *Board, store repository.SnapshotStore, cfg *model.GameConfig) *CacheWorldService {
	return &CacheWorldService{
		board:   board,
		store:   store,
		cfg:     cfg,
		visible: make(map[model.Cell]*model.Cache),
	}
}

// ShouldSpawn セルにキャッシュが出現するかの決定論的判定
func (s *CacheWorldService) ShouldSpawn(cell *model.Cell) bool {
	return Luck(cell.Key()) < s.cfg.SpawnProbability
}

// initialCoinCount 新規生成キャッシュの初期コイン数。
// 出現判定とは別のキーで引く（DESIGN.md参照）。
func (s *CacheWorldService) initialCoinCount(cell *model.Cell) int {
	return int(Luck(cell.Key()+CoinCountSalt) * float64(s.cfg.MaxCoinsPerCache))
}

// RefreshVisibility プレイヤー位置から可視ウィンドウを再計算し、
// ウィンドウ外のキャッシュを破棄、新たに入ったセルを実体化する。
// 同じ位置で2回呼んでも結果は変わらない（冪等）。
func (s *CacheWorldService) RefreshVisibility(ctx context.Context, center model.Location) error {
	window := s.board.CellsNear(center, s.cfg.VisibilityRadius)

	windowSet := make(map[model.Cell]struct{}, len(window))
	for _, cell := range window {
		windowSet[*cell] = struct{}{}
	}

	// ウィンドウ外に出たセル: 可視 → 休眠。
	// スナップショットは変異のたびに更新済みなので、ここでは外すだけでよい。
	for key := range s.visible {
		if _, ok := windowSet[key]; !ok {
			delete(s.visible, key)
		}
	}

	// 新たにウィンドウに入ったセル: 休眠 → 可視（復元）または 未訪問 → 可視（生成）
	for _, cell := range window {
		if _, ok := s.visible[*cell]; ok {
			continue // すでに可視（重複実体化の防止）
		}
		if !s.ShouldSpawn(cell) {
			continue
		}
		cache, err := s.materializeCache(ctx, cell)
		if err != nil {
			return fmt.Errorf("セル %s のキャッシュ実体化に失敗: %w", cell.Key(), err)
		}
		s.visible[*cell] = cache
	}

	return nil
}

// materializeCache 永続スナップショットがあれば復元し、なければ新規生成する。
// 新規生成時は再生成が二度と起きないよう、初期スナップショットを即座に永続化する。
// 破損スナップショットはそのセルに限り「保存なし」として扱う（障害の分離）。
func (s *CacheWorldService) materializeCache(ctx context.Context, cell *model.Cell) (*model.Cache, error) {
	value, found, err := s.store.Get(ctx, cell.StorageKey())
	if err != nil {
		return nil, fmt.Errorf("スナップショットの読み込み失敗: %w", err)
	}

	if found {
		snapshot, derr := model.DeserializeCache(value)
		if derr == nil && snapshot.Cell == *cell {
			return &model.Cache{Cell: cell, Coins: snapshot.Coins}, nil
		}
		if derr != nil && !errors.Is(derr, model.ErrCorruptSnapshot) {
			return nil, derr
		}
		log.Printf("⚠️ セル %s のスナップショットが破損しています。再生成します", cell.Key())
	}

	cache := s.generateCache(cell)
	if err := s.PersistCache(ctx, cache); err != nil {
		return nil, err
	}
	return cache, nil
}

// generateCache 決定論的シードから新しいキャッシュを生成する
func (s *CacheWorldService) generateCache(cell *model.Cell) *model.Cache {
	count := s.initialCoinCount(cell)
	coins := make([]model.Coin, 0, count)
	for k := 0; k < count; k++ {
		coins = append(coins, model.NewGeneratedCoin(*cell, k))
	}
	return &model.Cache{Cell: cell, Coins: coins}
}

// PersistCache キャッシュの現在状態をスナップショットとして永続化する。
// コインの出入りのたびに呼び、永続コピーとメモリ上の状態の乖離を防ぐ。
func (s *CacheWorldService) PersistCache(ctx context.Context, cache *model.Cache) error {
	snapshot, err := model.SerializeCache(cache)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, cache.Cell.StorageKey(), snapshot); err != nil {
		return fmt.Errorf("スナップショットの保存失敗: %w", err)
	}
	return nil
}

// VisibleCacheAt 可視キャッシュをセル座標で引く（セルキー付きルックアップ）
func (s *CacheWorldService) VisibleCacheAt(cell model.Cell) (*model.Cache, bool) {
	cache, ok := s.visible[cell]
	return cache, ok
}

// VisibleCaches 可視キャッシュ一覧を (i, j) 順で返す
func (s *CacheWorldService) VisibleCaches() []*model.Cache {
	caches := make([]*model.Cache, 0, len(s.visible))
	for _, cache := range s.visible {
		caches = append(caches, cache)
	}
	sort.Slice(caches, func(a, b int) bool {
		if caches[a].Cell.I != caches[b].Cell.I {
			return caches[a].Cell.I < caches[b].Cell.I
		}
		return caches[a].Cell.J < caches[b].Cell.J
	})
	return caches
}

// VisibleSnapshots 可視キャッシュのスナップショット文字列一覧を返す
// （プレイヤー状態ブロブに埋め込むローリングリスト）
func (s *CacheWorldService) VisibleSnapshots() ([]string, error) {
	snapshots := make([]string, 0, len(s.visible))
	for _, cache := range s.VisibleCaches() {
		snapshot, err := model.SerializeCache(cache)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// Board ボードへの参照を返す
func (s *CacheWorldService) Board() *Board {
	return s.board
}
