// Package entry реализует двухшаговую запись транзакции:
// команда с суммой → выбор категории кнопкой → запись в БД.
// categories.go содержит фиксированные наборы категорий.
package entry

import (
	"strings"

	"serotonyl.ru/finance-bot/internal/features/transactions"
	"serotonyl.ru/finance-bot/internal/telegram"
)

// Категории, предлагаемые кнопками.
var (
	ExpenseCategories = []string{"Еда", "Транспорт", "Развлечения", "Жилье", "Другое"}
	IncomeCategories  = []string{"Зарплата", "Фриланс", "Подарки", "Другое"}
)

// CallbackPrefix отличает выбор категории от прочих callback'ов.
const CallbackPrefix = "cat:"

// buttonsPerRow: кнопки категорий выводятся по две в ряд.
const buttonsPerRow = 2

// CategoriesFor возвращает копию набора категорий для типа.
func CategoriesFor(kind transactions.Kind) []string {
	var src []string
	switch kind {
	case transactions.KindIncome:
		src = IncomeCategories
	case transactions.KindExpense:
		src = ExpenseCategories
	}
	return append([]string(nil), src...)
}

// CategoryKeyboard строит клавиатуру выбора категории.
func CategoryKeyboard(categories []string) [][]telegram.Button {
	buttons := make([]telegram.Button, 0, len(categories))
	for _, c := range categories {
		buttons = append(buttons, telegram.Button{Text: c, Data: CallbackPrefix + c})
	}
	return telegram.Rows(buttons, buttonsPerRow)
}

// ParseCallback достаёт категорию из данных кнопки.
// Возвращает false, если это не кнопка категории.
func ParseCallback(data string) (string, bool) {
	category, ok := strings.CutPrefix(data, CallbackPrefix)
	if !ok || category == "" {
		return "", false
	}
	return category, true
}
