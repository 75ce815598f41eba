// Package conversation хранит состояние диалога с каждым пользователем
// между командой, которая начинает действие, и событием, которое его завершает.
// models.go описывает записи состояния.
package conversation

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"serotonyl.ru/finance-bot/internal/features/transactions"
)

// PendingEntry: сумма, ожидающая выбора категории.
type PendingEntry struct {
	Amount    decimal.Decimal   // Сумма из команды
	Kind      transactions.Kind // Доход или расход
	CreatedAt time.Time         // Когда поставлена (для очистки по TTL)
}

// slot: состояние одного пользователя. Поля меняются только под mu.
type slot struct {
	mu           sync.Mutex
	pending      *PendingEntry
	feedbackMode bool
}

// Stats: снимок хранилища для логов планировщика.
type Stats struct {
	Users    int // Сколько пользователей когда-либо писали боту
	Pending  int // Сколько ждут выбора категории
	Feedback int // Сколько в режиме отзыва
}
