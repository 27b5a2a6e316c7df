package model

import (
	"os"
	"strconv"
)

// ゲームチューニングのデフォルト値
const (
	DefaultTileWidthDegrees = 1e-4 // セル1辺の度数
	DefaultVisibilityRadius = 8    // 可視ウィンドウの半径（セル数）
	DefaultSpawnProbability = 0.1  // セルにキャッシュが湧く確率
	DefaultMaxCoinsPerCache = 10   // 新規生成キャッシュの最大コイン数

	// PlayerStateKey プレイヤー状態ブロブの既知キー
	PlayerStateKey = "player_state"
)

// GameConfig ゲームのチューニング定数
type GameConfig struct {
	TileWidthDegrees float64 `json:"tile_width_degrees"`  // セル1辺の度数
	VisibilityRadius int     `json:"visibility_radius"`   // 可視半径（セル数、チェビシェフ距離）
	SpawnProbability float64 `json:"spawn_probability"`   // キャッシュ出現確率 (0〜1)
	MaxCoinsPerCache int     `json:"max_coins_per_cache"` // 新規キャッシュの最大コイン数
}

// DefaultGameConfig デフォルト設定を返す
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		TileWidthDegrees: DefaultTileWidthDegrees,
		VisibilityRadius: DefaultVisibilityRadius,
		SpawnProbability: DefaultSpawnProbability,
		MaxCoinsPerCache: DefaultMaxCoinsPerCache,
	}
}

// GameConfigFromEnv 環境変数から設定を読み込む（未設定の項目はデフォルト値）
func GameConfigFromEnv() *GameConfig {
	cfg := DefaultGameConfig()

	if v := os.Getenv("GEOCOIN_TILE_WIDTH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.TileWidthDegrees = f
		}
	}
	if v := os.Getenv("GEOCOIN_VISIBILITY_RADIUS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.VisibilityRadius = n
		}
	}
	if v := os.Getenv("GEOCOIN_SPAWN_PROBABILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.SpawnProbability = f
		}
	}
	if v := os.Getenv("GEOCOIN_MAX_COINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxCoinsPerCache = n
		}
	}

	return cfg
}
