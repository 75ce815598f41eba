// Package conversation: store.go реализует хранилище состояний.
// Состояние живёт только в памяти процесса, без персистентности.
// Ожидающая сумма не истекает сама: её забирает выбор категории,
// перезаписывает новая команда или удаляет EvictPendingOlderThan (если включён TTL).
package conversation

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"serotonyl.ru/finance-bot/internal/features/transactions"
)

// Store: состояния диалогов по user_id.
// Блокировка на одного пользователя, разные пользователи не ждут друг друга.
type Store struct {
	slots sync.Map // int64 → *slot
	now   func() time.Time
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// slotFor возвращает слот пользователя, создавая его при первом обращении.
// Слоты не удаляются: их число ограничено числом пользователей.
func (s *Store) slotFor(userID int64) *slot {
	if v, ok := s.slots.Load(userID); ok {
		return v.(*slot)
	}
	v, _ := s.slots.LoadOrStore(userID, &slot{})
	return v.(*slot)
}

// SetPending запоминает сумму, ожидающую категорию.
// Прежняя ожидающая сумма молча заменяется (побеждает последняя запись).
func (s *Store) SetPending(userID int64, amount decimal.Decimal, kind transactions.Kind) {
	sl := s.slotFor(userID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.pending = &PendingEntry{
		Amount:    amount,
		Kind:      kind,
		CreatedAt: s.now(),
	}
}

// ConsumePending забирает ожидающую сумму. После вызова её больше нет.
func (s *Store) ConsumePending(userID int64) (PendingEntry, bool) {
	v, ok := s.slots.Load(userID)
	if !ok {
		return PendingEntry{}, false
	}
	sl := v.(*slot)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.pending == nil {
		return PendingEntry{}, false
	}
	entry := *sl.pending
	sl.pending = nil
	return entry, true
}

// RestorePending возвращает забранную сумму, если за это время
// пользователь не успел начать новую запись. Возвращает true, если вернули.
func (s *Store) RestorePending(userID int64, entry PendingEntry) bool {
	sl := s.slotFor(userID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.pending != nil {
		return false
	}
	sl.pending = &entry
	return true
}

// HasPending сообщает, ждёт ли пользователь выбора категории.
func (s *Store) HasPending(userID int64) bool {
	v, ok := s.slots.Load(userID)
	if !ok {
		return false
	}
	sl := v.(*slot)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.pending != nil
}

// SetFeedbackMode включает или выключает режим отзыва.
func (s *Store) SetFeedbackMode(userID int64, on bool) {
	sl := s.slotFor(userID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.feedbackMode = on
}

// ConsumeFeedbackMode читает режим отзыва и всегда сбрасывает его.
func (s *Store) ConsumeFeedbackMode(userID int64) bool {
	v, ok := s.slots.Load(userID)
	if !ok {
		return false
	}
	sl := v.(*slot)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	on := sl.feedbackMode
	sl.feedbackMode = false
	return on
}

// Reset сбрасывает оба флага пользователя (команда /cancel).
// Возвращает true, если было что сбрасывать.
func (s *Store) Reset(userID int64) bool {
	v, ok := s.slots.Load(userID)
	if !ok {
		return false
	}
	sl := v.(*slot)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	had := sl.pending != nil || sl.feedbackMode
	sl.pending = nil
	sl.feedbackMode = false
	return had
}

// EvictPendingOlderThan удаляет ожидающие суммы, поставленные раньше cutoff.
// Режим отзыва не трогает. Возвращает число удалённых.
func (s *Store) EvictPendingOlderThan(cutoff time.Time) int {
	evicted := 0
	s.slots.Range(func(_, v any) bool {
		sl := v.(*slot)
		sl.mu.Lock()
		if sl.pending != nil && sl.pending.CreatedAt.Before(cutoff) {
			sl.pending = nil
			evicted++
		}
		sl.mu.Unlock()
		return true
	})
	return evicted
}

// Stats считает пользователей и активные состояния.
func (s *Store) Stats() Stats {
	var st Stats
	s.slots.Range(func(_, v any) bool {
		sl := v.(*slot)
		st.Users++
		sl.mu.Lock()
		if sl.pending != nil {
			st.Pending++
		}
		if sl.feedbackMode {
			st.Feedback++
		}
		sl.mu.Unlock()
		return true
	})
	return st
}
