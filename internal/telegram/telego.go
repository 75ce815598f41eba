package telegram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegoMessenger реализует Messenger поверх telego.
type TelegoMessenger struct {
	bot *telego.Bot
}

var _ Messenger = (*TelegoMessenger)(nil)

// NewTelegoMessenger оборачивает готового бота telego.
func NewTelegoMessenger(bot *telego.Bot) *TelegoMessenger {
	return &TelegoMessenger{bot: bot}
}

func (m *TelegoMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := m.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	return nil
}

func (m *TelegoMessenger) SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]Button) error {
	keyboard := make([][]telego.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]telego.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tu.InlineKeyboardButton(b.Text).WithCallbackData(b.Data))
		}
		keyboard = append(keyboard, tu.InlineKeyboardRow(buttons...))
	}

	msg := tu.Message(tu.ID(chatID), text).WithReplyMarkup(tu.InlineKeyboard(keyboard...))
	if _, err := m.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("sendMessage (keyboard): %w", err)
	}
	return nil
}

func (m *TelegoMessenger) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := m.bot.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("editMessageText: %w", err)
	}
	return nil
}

func (m *TelegoMessenger) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	params := tu.CallbackQuery(callbackID)
	if text != "" {
		params = params.WithText(text)
	}
	if err := m.bot.AnswerCallbackQuery(ctx, params); err != nil {
		return fmt.Errorf("answerCallbackQuery: %w", err)
	}
	return nil
}

func (m *TelegoMessenger) SendPhoto(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	photo := tu.Photo(tu.ID(chatID), tu.File(tu.NameReader(bytes.NewReader(data), filename)))
	if caption != "" {
		photo = photo.WithCaption(caption)
	}
	if _, err := m.bot.SendPhoto(ctx, photo); err != nil {
		return fmt.Errorf("sendPhoto: %w", err)
	}
	return nil
}
