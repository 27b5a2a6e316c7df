package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoCoin-App/internal/domain/model"
	"GeoCoin-App/internal/domain/service"
	"GeoCoin-App/internal/repository"
	"GeoCoin-App/internal/usecase"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &model.GameConfig{
		TileWidthDegrees: model.DefaultTileWidthDegrees,
		VisibilityRadius: 1,
		SpawnProbability: 0.1,
		MaxCoinsPerCache: 10,
	}
	sessionUseCase := usecase.NewGameSessionUseCase(repository.NewMemorySnapshotStore(), cfg)
	sessionHandler := NewGameSessionHandler(sessionUseCase)

	r := gin.New()
	sessionHandler.RegisterRoutes(r)
	return r
}

// findRichCell 出現判定が真で初期コインを持つセルを探す
func findRichCell(t *testing.T) model.Cell {
	t.Helper()
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("%d,%d", i, i)
		if service.Luck(key) < 0.1 && int(service.Luck(key+service.CoinCountSalt)*10) >= 1 {
			return model.Cell{I: i, J: i}
		}
	}
	t.Fatal("出現セルが見つかりません")
	return model.Cell{}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestGameSessionHandler_FullFlow セッション作成 → 収集 → 預け入れの一連の流れ
func TestGameSessionHandler_FullFlow(t *testing.T) {
	r := setupTestRouter()
	rich := findRichCell(t)

	start := model.Location{
		Lat: (float64(rich.I) + 0.5) * model.DefaultTileWidthDegrees,
		Lng: (float64(rich.J) + 0.5) * model.DefaultTileWidthDegrees,
	}

	// セッション作成
	w := doJSON(t, r, http.MethodPost, "/api/sessions", model.CreateSessionRequest{StartLocation: &start})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session model.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.SessionID)
	assert.Greater(t, session.VisibleCacheCount, 0)

	base := "/api/sessions/" + session.SessionID

	// 可視キャッシュ一覧に開始セルのキャッシュがある
	w = doJSON(t, r, http.MethodGet, base+"/caches", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list model.CacheListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.NotEmpty(t, list.Caches)

	// 収集
	w = doJSON(t, r, http.MethodPost, base+"/collect", model.TransferRequest{I: rich.I, J: rich.J})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after model.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, model.StatusOK, after.Status)
	require.Len(t, after.Inventory, 1)

	// 預け入れ
	w = doJSON(t, r, http.MethodPost, base+"/deposit", model.TransferRequest{I: rich.I, J: rich.J})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Empty(t, after.Inventory)
}

// TestGameSessionHandler_Errors エラーのHTTPステータス対応付け
func TestGameSessionHandler_Errors(t *testing.T) {
	r := setupTestRouter()

	// 未知セッション → 404
	w := doJSON(t, r, http.MethodGet, "/api/sessions/unknown-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 不正なJSON → 400
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 開始位置なしの新規セッション → 400
	w = doJSON(t, r, http.MethodPost, "/api/sessions", model.CreateSessionRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "start_location_required")

	// 可視でないセルへの収集 → 404
	rich := findRichCell(t)
	start := model.Location{
		Lat: (float64(rich.I) + 0.5) * model.DefaultTileWidthDegrees,
		Lng: (float64(rich.J) + 0.5) * model.DefaultTileWidthDegrees,
	}
	w = doJSON(t, r, http.MethodPost, "/api/sessions", model.CreateSessionRequest{StartLocation: &start})
	require.Equal(t, http.StatusCreated, w.Code)

	var session model.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+session.SessionID+"/collect",
		model.TransferRequest{I: rich.I + 500, J: rich.J + 500})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
