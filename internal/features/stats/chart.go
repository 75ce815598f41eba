package stats

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"serotonyl.ru/finance-bot/internal/common"
)

// ErrNoExpenses: рисовать нечего.
var ErrNoExpenses = errors.New("нет расходов для диаграммы")

// Размер картинки
const (
	chartWidth  = 800
	chartHeight = 600
)

// RenderExpenseChart рисует круговую диаграмму расходов по категориям (PNG).
func RenderExpenseChart(s *Stats) ([]byte, error) {
	if !s.HasExpenses() {
		return nil, ErrNoExpenses
	}

	total := s.TotalExpense
	if !total.IsPositive() {
		return nil, ErrNoExpenses
	}

	values := make([]chart.Value, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		share := c.Total.Div(total).InexactFloat64() * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", c.Category, common.FormatAmount(c.Total), share),
			Value: c.Total.InexactFloat64(),
		})
	}

	pie := chart.PieChart{
		Title:  "Расходы по категориям",
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer(nil)
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("ошибка отрисовки диаграммы: %w", err)
	}
	return buffer.Bytes(), nil
}
