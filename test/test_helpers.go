package test

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"GeoCoin-App/internal/database"
	infradb "GeoCoin-App/internal/infrastructure/database"
)

// setupTestEnvironment は統一されたテスト環境のセットアップを行う
func setupTestEnvironment() {
	if err := godotenv.Load("../.env"); err != nil {
		// CI環境等では.envが存在しない場合があるため警告のみ
	}
}

// setupPostgresStoreClient 接続テスト用のPostgreSQLクライアントをセットアップする（リトライ付き）
func setupPostgresStoreClient() (*infradb.PostgreSQLClient, func(), error) {
	setupTestEnvironment()

	if os.Getenv("DATABASE_URL") == "" && os.Getenv("SUPABASE_DB_PASSWORD") == "" {
		return nil, nil, fmt.Errorf("PostgreSQL接続情報が設定されていません")
	}

	client, err := infradb.NewPostgreSQLClientWithRetry(3, 1*time.Second)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// setupSupabaseClient テスト用のSupabaseクライアントをセットアップする
func setupSupabaseClient() (*database.SupabaseClient, error) {
	setupTestEnvironment()

	if os.Getenv("SUPABASE_URL") == "" || os.Getenv("SUPABASE_ANON_KEY") == "" {
		return nil, fmt.Errorf("Supabase接続情報が設定されていません")
	}
	return database.NewSupabaseClient()
}
