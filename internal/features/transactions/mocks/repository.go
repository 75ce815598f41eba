// Package mocks содержит in-memory реализацию хранилища транзакций для тестов.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"serotonyl.ru/finance-bot/internal/features/transactions"
)

// Repository повторяет поведение transactions.Repository в памяти.
type Repository struct {
	mu     sync.Mutex
	nextID int64
	rows   []transactions.Transaction

	// InsertError позволяет симулировать недоступную БД при вставке.
	InsertError error
	// QueryError позволяет симулировать недоступную БД при чтении.
	QueryError error
}

// NewRepository создаёт пустое хранилище.
func NewRepository() *Repository {
	return &Repository{}
}

// Insert сохраняет копию записи, проставляя ID и время.
func (r *Repository) Insert(_ context.Context, tx *transactions.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.InsertError != nil {
		return r.InsertError
	}

	r.nextID++
	tx.ID = r.nextID
	tx.CreatedAt = time.Now()
	r.rows = append(r.rows, *tx)
	return nil
}

// SumByKind суммирует записи пользователя указанного типа.
func (r *Repository) SumByKind(_ context.Context, userID int64, kind transactions.Kind) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.QueryError != nil {
		return decimal.Zero, r.QueryError
	}

	total := decimal.Zero
	for _, row := range r.rows {
		if row.UserID == userID && row.Kind == kind {
			total = total.Add(row.Amount)
		}
	}
	return total, nil
}

// SumExpensesByCategory группирует расходы пользователя по категориям.
func (r *Repository) SumExpensesByCategory(_ context.Context, userID int64) ([]transactions.CategoryTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.QueryError != nil {
		return nil, r.QueryError
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, row := range r.rows {
		if row.UserID == userID && row.Kind == transactions.KindExpense {
			byCategory[row.Category] = byCategory[row.Category].Add(row.Amount)
		}
	}

	totals := make([]transactions.CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, transactions.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals, nil
}

// All возвращает копию всех сохранённых записей.
func (r *Repository) All() []transactions.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]transactions.Transaction(nil), r.rows...)
}

// ByUser возвращает записи одного пользователя.
func (r *Repository) ByUser(userID int64) []transactions.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []transactions.Transaction
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out
}
