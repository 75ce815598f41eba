// Package transactions: repository.go выполняет все операции с таблицей transactions.
// Каждая операция: один SQL-запрос, отдельная транзакция БД не нужна.
package transactions

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/db/postgres"
)

// Repository предоставляет методы для записи и агрегации транзакций.
type Repository struct {
	db postgres.DB
}

// NewRepository создаёт новый репозиторий транзакций.
func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

// Insert записывает транзакцию и заполняет ID и CreatedAt из БД.
func (r *Repository) Insert(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date
	`
	err := r.db.QueryRow(ctx, query, tx.UserID, string(tx.Kind), tx.Amount, tx.Category).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: ошибка записи транзакции: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

// SumByKind возвращает сумму всех транзакций пользователя указанного типа.
// Если записей нет: ноль.
func (r *Repository) SumByKind(ctx context.Context, userID int64, kind Kind) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2
	`
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, userID, string(kind)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%w: ошибка подсчёта суммы (%s): %w", common.ErrStorageUnavailable, kind, err)
	}
	return total, nil
}

// SumExpensesByCategory возвращает расходы пользователя, сгруппированные по категориям.
// Сортировка: по убыванию суммы, при равенстве по названию.
func (r *Repository) SumExpensesByCategory(ctx context.Context, userID int64) ([]CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND type = $2
		GROUP BY category
		ORDER BY total DESC, category
	`
	rows, err := r.db.Query(ctx, query, userID, string(KindExpense))
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка группировки расходов: %w", common.ErrStorageUnavailable, err)
	}

	totals, err := pgx.CollectRows(rows, pgx.RowToStructByName[CategoryTotal])
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения расходов по категориям: %w", common.ErrStorageUnavailable, err)
	}
	return totals, nil
}
