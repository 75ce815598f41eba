package postgres_test

import (
	"context"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"serotonyl.ru/finance-bot/internal/db/postgres"
	"serotonyl.ru/finance-bot/internal/db/postgres/postgrestest"
)

func TestMigrationsAreVersionedInOrder(t *testing.T) {
	for i, m := range postgres.Migrations {
		require.Equal(t, i+1, m.Version, "migration %s", m.Name)
		require.NotEmpty(t, m.SQL)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	pool := postgrestest.DB(t)
	ctx := context.Background()

	// postgrestest.DB уже применил миграции, второй прогон ничего не меняет
	require.NoError(t, postgres.RunMigrations(ctx, pool))

	for _, table := range []string{"transactions", "feedback", "schema_migrations"} {
		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table,
		).Scan(&exists)
		require.NoError(t, err)
		require.True(t, exists, "table %s", table)
	}

	var versions int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&versions)
	require.NoError(t, err)
	require.Equal(t, len(postgres.Migrations), versions)
}

func TestTransactionsRejectNonPositiveAmount(t *testing.T) {
	pool := postgrestest.DB(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO transactions (user_id, type, amount, category) VALUES (1, 'expense', 0, 'x')`)
	require.Error(t, err)
}

// Тестовые помощники живут в postgrestest, в рабочий бинарник testing не попадает.
func TestPackageDoesNotImportTesting(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			require.NotEqual(t, "testing", path, name)
		}
	}
}
