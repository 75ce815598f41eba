// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: форматирование сумм и хеширование идентификаторов для логов.
package common

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumber форматирует целое число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	s := decimal.NewFromInt(n).String()
	if len(s) <= 3 {
		return s
	}

	var sb strings.Builder
	head := len(s) % 3
	if head > 0 {
		sb.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// FormatAmount форматирует сумму для пользователя.
// Целая часть: с разделителями тысяч, дробная, до двух знаков,
// нули в конце отбрасываются.
//
// Примеры:
//
//	FormatAmount(1500)    → "1 500"
//	FormatAmount(1500.5)  → "1 500.5"
//	FormatAmount(-0.25)   → "-0.25"
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	intPart := d.Truncate(0)
	frac := d.Sub(intPart)

	out := sign + FormatNumber(intPart.IntPart())
	if !frac.IsZero() {
		// "0.5" → ".5"
		out += strings.TrimPrefix(frac.String(), "0")
	}
	return out
}
