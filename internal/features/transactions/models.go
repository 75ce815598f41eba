// Package transactions хранит доходы и расходы пользователей.
// models.go описывает запись транзакции и агрегаты по ней.
package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind: тип транзакции. Значение пишется в колонку type как есть.
type Kind string

const (
	KindIncome  Kind = "income"  // Доход
	KindExpense Kind = "expense" // Расход
)

// Valid сообщает, известен ли тип.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Title: подпись для сообщений пользователю.
func (k Kind) Title() string {
	switch k {
	case KindIncome:
		return "Доход"
	case KindExpense:
		return "Расход"
	default:
		return string(k)
	}
}

// Transaction: одна запись о доходе или расходе.
// После вставки не меняется: UPDATE/DELETE в репозитории нет.
type Transaction struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`  // Telegram user ID
	Kind      Kind            `db:"type"`     // income / expense
	Amount    decimal.Decimal `db:"amount"`   // Всегда положительная
	Category  string          `db:"category"` // Категория как пришла из кнопки
	CreatedAt time.Time       `db:"date"`     // Проставляет БД
}

// CategoryTotal: сумма расходов по одной категории.
type CategoryTotal struct {
	Category string          `db:"category"`
	Total    decimal.Decimal `db:"total"`
}
