package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"GeoCoin-App/internal/domain/model"
	"GeoCoin-App/internal/usecase"
)

// GameSessionHandler ゲームセッションに関するHTTPハンドラー
type GameSessionHandler struct {
	sessionUseCase usecase.GameSessionUseCase
}

// NewGameSessionHandler GameSessionHandlerの新しいインスタンスを作成
func NewGameSessionHandler(sessionUseCase usecase.GameSessionUseCase) *GameSessionHandler {
	return &GameSessionHandler{
		sessionUseCase: sessionUseCase,
	}
}

// RegisterRoutes ルーティングを登録する
func (h *GameSessionHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.POST("/sessions/:id/move", h.Move)
		api.POST("/sessions/:id/collect", h.Collect)
		api.POST("/sessions/:id/deposit", h.Deposit)
		api.GET("/sessions/:id/caches", h.VisibleCaches)
	}
}

// CreateSession POST /api/sessions - セッションの作成（再開）
func (h *GameSessionHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	response, err := h.sessionUseCase.CreateSession(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err, "Failed to create session")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetSession GET /api/sessions/:id - セッション状態の取得
func (h *GameSessionHandler) GetSession(c *gin.Context) {
	response, err := h.sessionUseCase.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to get session")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Move POST /api/sessions/:id/move - プレイヤー移動
func (h *GameSessionHandler) Move(c *gin.Context) {
	var req model.MoveRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	response, err := h.sessionUseCase.Move(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err, "Failed to move player")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Collect POST /api/sessions/:id/collect - コイン収集
func (h *GameSessionHandler) Collect(c *gin.Context) {
	var req model.TransferRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	response, err := h.sessionUseCase.Collect(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err, "Failed to collect coin")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Deposit POST /api/sessions/:id/deposit - コイン預け入れ
func (h *GameSessionHandler) Deposit(c *gin.Context) {
	var req model.TransferRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	response, err := h.sessionUseCase.Deposit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err, "Failed to deposit coin")
		return
	}

	c.JSON(http.StatusOK, response)
}

// VisibleCaches GET /api/sessions/:id/caches - 可視キャッシュ一覧
func (h *GameSessionHandler) VisibleCaches(c *gin.Context) {
	response, err := h.sessionUseCase.VisibleCaches(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to list caches")
		return
	}

	c.JSON(http.StatusOK, response)
}

// writeError ユースケースのエラーをHTTPステータスに対応付ける
func (h *GameSessionHandler) writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, usecase.ErrCacheNotVisible):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "cache_not_visible",
			"message": err.Error(),
		})
	case errors.Is(err, usecase.ErrCoinNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "coin_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, usecase.ErrStartLocationRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "start_location_required",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": message + ": " + err.Error(),
		})
	}
}
