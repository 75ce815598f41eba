// Package entry: service.go содержит логику двухшаговой записи.
//
// Состояние между шагами хранится в conversation.Store.
// Если пользователь дважды подряд вызывает команду с суммой, в силе только
// последняя: первая сумма молча теряется. Выбор категории фиксирует то, что
// лежит в хранилище на момент нажатия.
package entry

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/features/conversation"
	"serotonyl.ru/finance-bot/internal/features/transactions"
)

// MaxAmount: верхняя граница суммы.
var MaxAmount = decimal.New(1, 15)

// Ограничения на запись суммы. Порядок проверяется до любых сравнений:
// decimal приводит числа к общему порядку, и «1e-100000000» развернулся бы
// в сотни мегабайт цифр.
const (
	maxAmountLen      = 64
	maxAmountExponent = 15
	minAmountExponent = -maxAmountLen
	amountPlaces      = 2
)

// Writer: куда сохраняются транзакции.
type Writer interface {
	Insert(ctx context.Context, tx *transactions.Transaction) error
}

// Service управляет записью транзакций.
type Service struct {
	state *conversation.Store
	repo  Writer
}

// NewService создаёт сервис записи.
func NewService(state *conversation.Store, repo Writer) *Service {
	return &Service{state: state, repo: repo}
}

// ParseAmount разбирает сумму из аргумента команды.
// Допускается запятая как десятичный разделитель. Сумма должна быть > 0,
// не больше MaxAmount и без долей меньше копейки.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, common.ErrInvalidAmount
	}
	if len(raw) > maxAmountLen {
		return decimal.Zero, fmt.Errorf("%w: слишком длинная запись", common.ErrInvalidAmount)
	}
	raw = strings.ReplaceAll(raw, ",", ".")

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, raw)
	}
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, raw)
	}
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s", common.ErrInvalidAmount, amount)
	}
	// 0.001 показалось бы пользователю как «0»
	if !amount.Equal(amount.Round(amountPlaces)) {
		return decimal.Zero, fmt.Errorf("%w: больше %d знаков после запятой: %s", common.ErrInvalidAmount, amountPlaces, amount)
	}
	return amount, nil
}

// BeginEntry проверяет сумму, ставит её в ожидание и возвращает категории для выбора.
// При ошибке (common.ErrInvalidAmount) состояние не меняется.
func (s *Service) BeginEntry(userID int64, rawAmount string, kind transactions.Kind) (decimal.Decimal, []string, error) {
	if !kind.Valid() {
		return decimal.Zero, nil, fmt.Errorf("неизвестный тип транзакции %q", kind)
	}

	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return decimal.Zero, nil, err
	}

	s.state.SetPending(userID, amount, kind)

	log.WithFields(log.Fields{
		"user":   common.HashUserID(userID),
		"kind":   kind,
		"amount": amount.String(),
	}).Debug("Сумма ожидает категорию")

	return amount, CategoriesFor(kind), nil
}

// ResolveCategory фиксирует ожидающую сумму с выбранной категорией.
// Категория принимается как есть, без сверки с предложенным набором.
//
// Ошибки:
//   - common.ErrNoPendingEntry: ожидающей суммы нет, ничего не записано;
//   - common.ErrStorageUnavailable: БД не приняла запись; сумма возвращена в ожидание,
//     если пользователь не успел начать новую.
func (s *Service) ResolveCategory(ctx context.Context, userID int64, category string) (*transactions.Transaction, error) {
	entry, ok := s.state.ConsumePending(userID)
	if !ok {
		return nil, common.ErrNoPendingEntry
	}

	tx := &transactions.Transaction{
		UserID:   userID,
		Kind:     entry.Kind,
		Amount:   entry.Amount,
		Category: category,
	}
	if err := s.repo.Insert(ctx, tx); err != nil {
		restored := s.state.RestorePending(userID, entry)
		log.WithError(err).WithFields(log.Fields{
			"user":     common.HashUserID(userID),
			"restored": restored,
		}).Error("Не удалось записать транзакцию")
		return nil, err
	}

	log.WithFields(log.Fields{
		"user":     common.HashUserID(userID),
		"kind":     tx.Kind,
		"amount":   tx.Amount.String(),
		"category": tx.Category,
	}).Info("Транзакция записана")

	return tx, nil
}

// Cancel сбрасывает ожидающую сумму и режим отзыва.
func (s *Service) Cancel(userID int64) bool {
	return s.state.Reset(userID)
}
