// Package telegram: граница с Telegram API.
// Обработчики фич работают через интерфейс Messenger и не знают про telego,
// поэтому в тестах его заменяет mocks.Messenger.
package telegram

import "context"

// Button описывает inline-кнопку (подпись и данные callback'а).
type Button struct {
	Text string
	Data string
}

// Messenger: исходящие операции бота.
type Messenger interface {
	// SendText отправляет обычное текстовое сообщение.
	SendText(ctx context.Context, chatID int64, text string) error
	// SendKeyboard отправляет сообщение с inline-клавиатурой (строки кнопок).
	SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]Button) error
	// EditText заменяет текст ранее отправленного сообщения и убирает клавиатуру.
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	// AnswerCallback гасит «часики» на нажатой кнопке.
	AnswerCallback(ctx context.Context, callbackID string, text string) error
	// SendPhoto отправляет PNG-картинку.
	SendPhoto(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}

// Rows раскладывает кнопки по строкам заданной ширины.
// Последняя строка может быть короче.
func Rows(buttons []Button, perRow int) [][]Button {
	if perRow <= 0 {
		perRow = 1
	}
	rows := make([][]Button, 0, (len(buttons)+perRow-1)/perRow)
	for i := 0; i < len(buttons); i += perRow {
		end := min(i+perRow, len(buttons))
		rows = append(rows, buttons[i:end])
	}
	return rows
}
