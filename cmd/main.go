package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"GeoCoin-App/internal/database"
	"GeoCoin-App/internal/domain/model"
	domainRepo "GeoCoin-App/internal/domain/repository"
	"GeoCoin-App/internal/handler"
	infraDB "GeoCoin-App/internal/infrastructure/database"
	firestoreInfra "GeoCoin-App/internal/infrastructure/firestore"
	"GeoCoin-App/internal/repository"
	"GeoCoin-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := model.GameConfigFromEnv()
	fmt.Printf("Game config: tile=%g radius=%d spawn=%.2f maxCoins=%d\n",
		cfg.TileWidthDegrees, cfg.VisibilityRadius, cfg.SpawnProbability, cfg.MaxCoinsPerCache)

	store, err := buildSnapshotStore()
	if err != nil {
		log.Fatalf("ストレージバックエンドの初期化失敗: %v", err)
	}

	sessionUseCase := usecase.NewGameSessionUseCase(store, cfg)
	sessionHandler := handler.NewGameSessionHandler(sessionUseCase)

	r := gin.Default()
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "GeoCoin-App",
			"backend": storageBackendName(),
		})
	})
	sessionHandler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("GeoCoin-App server starting on :%s...\n", port)
	log.Fatal(r.Run(":" + port))
}

// storageBackendName 環境変数からストレージバックエンド名を取得
func storageBackendName() string {
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = "memory"
	}
	return backend
}

// buildSnapshotStore 環境変数に応じたスナップショットストアを構築する
func buildSnapshotStore() (domainRepo.SnapshotStore, error) {
	backend := storageBackendName()

	switch backend {
	case "memory":
		fmt.Println("Using in-memory snapshot store (state is lost on restart)")
		return repository.NewMemorySnapshotStore(), nil

	case "postgres":
		fmt.Println("Initializing PostgreSQL snapshot store...")
		client, err := infraDB.NewPostgreSQLClientWithRetry(5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		store, err := repository.NewPostgresSnapshotStore(client)
		if err != nil {
			return nil, err
		}
		fmt.Println("✅ PostgreSQL connection successful!")
		return store, nil

	case "firestore":
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
		}
		fmt.Println("Initializing Firestore snapshot store...")
		client, err := firestoreInfra.NewFirestoreClient(context.Background(), projectID)
		if err != nil {
			return nil, err
		}
		return repository.NewFirestoreSnapshotStore(client.GetClient()), nil

	case "supabase":
		fmt.Println("Initializing Supabase snapshot store...")
		client, err := database.NewSupabaseClient()
		if err != nil {
			return nil, err
		}
		if err := client.HealthCheck(); err != nil {
			return nil, err
		}
		fmt.Println("✅ Supabase connection successful!")
		return repository.NewSupabaseSnapshotStore(client), nil

	default:
		return nil, fmt.Errorf("未知のSTORAGE_BACKEND: %s", backend)
	}
}
