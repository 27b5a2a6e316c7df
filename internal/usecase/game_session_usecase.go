package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"GeoCoin-App/internal/domain/model"
	"GeoCoin-App/internal/domain/repository"
	"GeoCoin-App/internal/domain/service"
	repoImpl "GeoCoin-App/internal/repository"
)

// セッション操作のエラー。ハンドラー層でHTTPステータスに対応付けられる。
var (
	ErrSessionNotFound       = errors.New("セッションが見つかりません")
	ErrCacheNotVisible       = errors.New("指定セルに可視キャッシュがありません")
	ErrCoinNotFound          = errors.New("指定コインが見つかりません")
	ErrStartLocationRequired = errors.New("新規セッションには start_location が必要です")
)

type GameSessionUseCase interface {
	// CreateSession 新しいゲームセッションを作成する。session_id を指定すると
	// 永続ストアからプレイヤー状態を読み戻して再開する。
	CreateSession(ctx context.Context, req *model.CreateSessionRequest) (*model.SessionResponse, error)

	// GetSession セッションの現在状態を取得する
	GetSession(ctx context.Context, sessionID string) (*model.SessionResponse, error)

	// Move プレイヤーを移動し、可視ウィンドウを再計算して状態を永続化する
	Move(ctx context.Context, sessionID string, req *model.MoveRequest) (*model.SessionResponse, error)

	// Collect 可視キャッシュからコインを1枚インベントリに移す
	Collect(ctx context.Context, sessionID string, req *model.TransferRequest) (*model.SessionResponse, error)

	// Deposit インベントリのコインを1枚可視キャッシュに預ける
	Deposit(ctx context.Context, sessionID string, req *model.TransferRequest) (*model.SessionResponse, error)

	// VisibleCaches 可視キャッシュの一覧を取得する
	VisibleCaches(ctx context.Context, sessionID string) (*model.CacheListResponse, error)
}

// gameSession 1つの独立したゲーム世界。操作はセッション単位のミューテックスで
// 直列化される（コアのシングルライターモデル）。
type gameSession struct {
	id     string
	mu     sync.Mutex
	world  *service.CacheWorldService
	player *model.PlayerState
	store  repository.SnapshotStore // セッション名前空間付きストア
}

// gameSessionUseCaseImpl はGameSessionUseCaseの実装
type gameSessionUseCaseImpl struct {
	store repository.SnapshotStore // 共有永続ストア
	cfg   *model.GameConfig

	mu       sync.RWMutex
	sessions map[string]*gameSession
}

// NewGameSessionUseCase 新しいGameSessionUseCaseインスタンスを作成
func NewGameSessionUseCase(store repository.SnapshotStore, cfg *model.GameConfig) GameSessionUseCase {
	return &gameSessionUseCaseImpl{
		store:    store,
		cfg:      cfg,
		sessions: make(map[string]*gameSession),
	}
}

// CreateSession セッションを作成（または再開）する
func (u *gameSessionUseCaseImpl) CreateSession(ctx context.Context, req *model.CreateSessionRequest) (*model.SessionResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	// すでにメモリ上にあるセッションはそのまま返す
	u.mu.RLock()
	existing, ok := u.sessions[sessionID]
	u.mu.RUnlock()
	if ok {
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return u.sessionResponse(existing, model.StatusOK, ""), nil
	}

	sessionStore := repoImpl.NewPrefixSnapshotStore(u.store, fmt.Sprintf("session_%s_", sessionID))
	board := service.NewBoard(u.cfg.TileWidthDegrees)
	world := service.NewCacheWorldService(board, sessionStore, u.cfg)

	// 永続ストアにプレイヤー状態があれば丸ごと読み戻す
	player, err := u.loadPlayerState(ctx, sessionStore)
	if err != nil {
		return nil, err
	}
	if player == nil {
		if req.StartLocation == nil {
			return nil, ErrStartLocationRequired
		}
		player = model.NewPlayerState(*req.StartLocation)
		log.Printf("🚀 新規セッション %s を開始 (位置: %.5f, %.5f)", sessionID, player.Position.Lat, player.Position.Lng)
	} else {
		log.Printf("✅ セッション %s を再開 (コイン%d枚, 移動履歴%d点)", sessionID, len(player.Inventory), len(player.MovementTrail))
	}

	session := &gameSession{
		id:     sessionID,
		world:  world,
		player: player,
		store:  sessionStore,
	}

	// 登録は書き込みロック下で再確認する。同じIDの並行作成に負けた場合は
	// 自分の組み立て結果を破棄し、既存セッションをそのまま返す。
	// ここで古いブロブを永続化し直すと、勝った側の変異が巻き戻ってしまう。
	u.mu.Lock()
	if winner, ok := u.sessions[sessionID]; ok {
		u.mu.Unlock()
		winner.mu.Lock()
		defer winner.mu.Unlock()
		return u.sessionResponse(winner, model.StatusOK, ""), nil
	}
	u.sessions[sessionID] = session
	u.mu.Unlock()

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := world.RefreshVisibility(ctx, player.Position); err != nil {
		u.removeSession(sessionID)
		return nil, err
	}
	if err := u.persistPlayerState(ctx, session); err != nil {
		u.removeSession(sessionID)
		return nil, err
	}

	return u.sessionResponse(session, model.StatusOK, ""), nil
}

// removeSession 初期化に失敗したセッションを登録から外す
func (u *gameSessionUseCaseImpl) removeSession(sessionID string) {
	u.mu.Lock()
	delete(u.sessions, sessionID)
	u.mu.Unlock()
}

// GetSession セッションの現在状態を返す
func (u *gameSessionUseCaseImpl) GetSession(ctx context.Context, sessionID string) (*model.SessionResponse, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	return u.sessionResponse(session, model.StatusOK, ""), nil
}

// Move プレイヤー移動。移動のたびに可視ウィンドウを再計算し、
// プレイヤー状態ブロブ全体を永続化する。
func (u *gameSessionUseCaseImpl) Move(ctx context.Context, sessionID string, req *model.MoveRequest) (*model.SessionResponse, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	position := model.Location{Lat: req.Lat, Lng: req.Lng}
	session.player.Position = position
	session.player.MovementTrail = append(session.player.MovementTrail, position.ToTrailPoint())

	if err := session.world.RefreshVisibility(ctx, position); err != nil {
		return nil, err
	}
	if err := u.persistPlayerState(ctx, session); err != nil {
		return nil, err
	}

	return u.sessionResponse(session, model.StatusOK, ""), nil
}

// Collect キャッシュ → インベントリのコイン移動。
// 空のキャッシュからの収集はエラーではなく nothing_to_do。
func (u *gameSessionUseCaseImpl) Collect(ctx context.Context, sessionID string, req *model.TransferRequest) (*model.SessionResponse, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	cache, ok := session.world.VisibleCacheAt(model.Cell{I: req.I, J: req.J})
	if !ok {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrCacheNotVisible, req.I, req.J)
	}

	if cache.IsEmpty() {
		return u.sessionResponse(session, model.StatusNothingToDo, "キャッシュは空です"), nil
	}

	coinID := req.CoinID
	if coinID == "" {
		coinID = cache.Coins[0].ID
	}

	coin, ok := cache.RemoveCoin(coinID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCoinNotFound, coinID)
	}
	session.player.AddCoin(coin)

	// 変異の直後にスナップショットを更新し、永続コピーの乖離を防ぐ
	if err := session.world.PersistCache(ctx, cache); err != nil {
		return nil, err
	}
	if err := u.persistPlayerState(ctx, session); err != nil {
		return nil, err
	}

	return u.sessionResponse(session, model.StatusOK, fmt.Sprintf("コイン %s を収集", coin.ID)), nil
}

// Deposit インベントリ → キャッシュのコイン移動。
// インベントリが空の場合はエラーではなく nothing_to_do。
func (u *gameSessionUseCaseImpl) Deposit(ctx context.Context, sessionID string, req *model.TransferRequest) (*model.SessionResponse, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	cache, ok := session.world.VisibleCacheAt(model.Cell{I: req.I, J: req.J})
	if !ok {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrCacheNotVisible, req.I, req.J)
	}

	if len(session.player.Inventory) == 0 {
		return u.sessionResponse(session, model.StatusNothingToDo, "インベントリは空です"), nil
	}

	coinID := req.CoinID
	if coinID == "" {
		coinID = session.player.Inventory[len(session.player.Inventory)-1].ID
	}

	if !session.player.HasCoin(coinID) {
		return nil, fmt.Errorf("%w: %s", ErrCoinNotFound, coinID)
	}
	coin, _ := session.player.RemoveCoin(coinID)
	cache.AddCoin(coin)

	if err := session.world.PersistCache(ctx, cache); err != nil {
		return nil, err
	}
	if err := u.persistPlayerState(ctx, session); err != nil {
		return nil, err
	}

	return u.sessionResponse(session, model.StatusOK, fmt.Sprintf("コイン %s を預け入れ", coin.ID)), nil
}

// VisibleCaches 可視キャッシュ一覧を表示用ビューに変換して返す
func (u *gameSessionUseCaseImpl) VisibleCaches(ctx context.Context, sessionID string) (*model.CacheListResponse, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	caches := session.world.VisibleCaches()
	views := make([]model.CacheView, 0, len(caches))
	for _, cache := range caches {
		views = append(views, model.CacheView{
			Cell:      *cache.Cell,
			Coins:     cache.Coins,
			CoinCount: len(cache.Coins),
			IsEmpty:   cache.IsEmpty(),
			BoundsWKT: session.world.Board().CellBoundsWKT(cache.Cell),
		})
	}

	return &model.CacheListResponse{
		SessionID: sessionID,
		Caches:    views,
	}, nil
}

// session セッションをIDで引く
func (u *gameSessionUseCaseImpl) session(sessionID string) (*gameSession, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	session, ok := u.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// loadPlayerState 永続ストアからプレイヤー状態を読み戻す。
// 保存がない場合は (nil, nil)。壊れたブロブは「保存なし」として扱う。
func (u *gameSessionUseCaseImpl) loadPlayerState(ctx context.Context, store repository.SnapshotStore) (*model.PlayerState, error) {
	value, found, err := store.Get(ctx, model.PlayerStateKey)
	if err != nil {
		return nil, fmt.Errorf("プレイヤー状態の読み込み失敗: %w", err)
	}
	if !found {
		return nil, nil
	}

	var player model.PlayerState
	if err := json.Unmarshal([]byte(value), &player); err != nil {
		log.Printf("⚠️ プレイヤー状態ブロブが破損しています。新規状態で開始します: %v", err)
		return nil, nil
	}
	if player.Inventory == nil {
		player.Inventory = []model.Coin{}
	}
	if player.MovementTrail == nil {
		player.MovementTrail = []model.TrailPoint{}
	}
	return &player, nil
}

// persistPlayerState プレイヤー状態（可視キャッシュのスナップショット込み）を
// 1つのブロブとして永続化する
func (u *gameSessionUseCaseImpl) persistPlayerState(ctx context.Context, session *gameSession) error {
	snapshots, err := session.world.VisibleSnapshots()
	if err != nil {
		return err
	}
	session.player.VisibleCacheSnapshots = snapshots

	data, err := json.Marshal(session.player)
	if err != nil {
		return fmt.Errorf("プレイヤー状態のJSONマーシャル失敗: %w", err)
	}
	if err := session.store.Set(ctx, model.PlayerStateKey, string(data)); err != nil {
		return fmt.Errorf("プレイヤー状態の保存失敗: %w", err)
	}
	return nil
}

// sessionResponse セッションの現在状態からレスポンスを組み立てる
func (u *gameSessionUseCaseImpl) sessionResponse(session *gameSession, status, message string) *model.SessionResponse {
	return &model.SessionResponse{
		SessionID:         session.id,
		Status:            status,
		Message:           message,
		Position:          session.player.Position,
		Inventory:         session.player.Inventory,
		MovementTrail:     session.player.MovementTrail,
		VisibleCacheCount: len(session.world.VisibleCaches()),
	}
}
