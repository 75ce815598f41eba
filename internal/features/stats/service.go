// Package stats считает баланс и сводку расходов пользователя.
// Данные читаются из хранилища транзакций при каждом запросе, состояние диалога не используется.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/features/transactions"
)

// Reader: агрегаты, которые нужны для статистики.
type Reader interface {
	SumByKind(ctx context.Context, userID int64, kind transactions.Kind) (decimal.Decimal, error)
	SumExpensesByCategory(ctx context.Context, userID int64) ([]transactions.CategoryTotal, error)
}

// Stats: сводка по пользователю.
type Stats struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal              // TotalIncome − TotalExpense
	ByCategory   []transactions.CategoryTotal // Расходы по категориям, крупные сначала
}

// HasExpenses сообщает, есть ли хоть один расход.
func (s *Stats) HasExpenses() bool {
	return len(s.ByCategory) > 0
}

// Service считает статистику.
type Service struct {
	repo Reader
}

// NewService создаёт сервис статистики.
func NewService(repo Reader) *Service {
	return &Service{repo: repo}
}

// ComputeStats собирает сводку. Только чтение.
func (s *Service) ComputeStats(ctx context.Context, userID int64) (*Stats, error) {
	income, err := s.repo.SumByKind(ctx, userID, transactions.KindIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.repo.SumByKind(ctx, userID, transactions.KindExpense)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.SumExpensesByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		ByCategory:   byCategory,
	}, nil
}

// noExpenses: строка вместо пустого списка категорий.
const noExpenses = "Пока нет расходов."

// FormatStats превращает сводку в текст ответа.
//
//	📊 Статистика:
//	Баланс: 750
//	Доходы: 1 000
//	Расходы: 250
//
//	Расходы по категориям:
//	Еда: 250
func FormatStats(s *Stats) string {
	var sb strings.Builder
	sb.WriteString("📊 Статистика:\n")
	fmt.Fprintf(&sb, "Баланс: %s\n", common.FormatAmount(s.Balance))
	fmt.Fprintf(&sb, "Доходы: %s\n", common.FormatAmount(s.TotalIncome))
	fmt.Fprintf(&sb, "Расходы: %s\n", common.FormatAmount(s.TotalExpense))
	sb.WriteString("\nРасходы по категориям:")

	if !s.HasExpenses() {
		sb.WriteString("\n" + noExpenses)
		return sb.String()
	}
	for _, c := range s.ByCategory {
		fmt.Fprintf(&sb, "\n%s: %s", c.Category, common.FormatAmount(c.Total))
	}
	return sb.String()
}
