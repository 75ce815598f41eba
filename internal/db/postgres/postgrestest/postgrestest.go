// Package postgrestest поднимает тестовую БД для интеграционных тестов.
package postgrestest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/finance-bot/internal/db/postgres"
)

// DB подключается к TEST_DATABASE_URL, накатывает миграции
// и чистит таблицы. Без переменной тест пропускается.
func DB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, table := range []string{"transactions", "feedback"} {
		if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}

	return pool
}
