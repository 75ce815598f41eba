// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/common"
)

// maxLoggedText: сколько символов текста попадает в лог.
const maxLoggedText = 50

// LogUpdate логирует входящий апдейт.
// Записывает: хеш user_id, chat_id, тип и текст (первые 50 символов).
// Суммы и отзывы: личные данные, поэтому только debug.
func LogUpdate(update telego.Update) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}

	switch {
	case update.Message != nil && update.Message.From != nil:
		message := update.Message
		log.WithFields(log.Fields{
			"update_id": update.UpdateID,
			"user":      common.HashUserID(message.From.ID),
			"chat_id":   message.Chat.ID,
			"text":      truncate(message.Text),
		}).Debug("Входящее сообщение")

	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		log.WithFields(log.Fields{
			"update_id": update.UpdateID,
			"user":      common.HashUserID(query.From.ID),
			"data":      truncate(query.Data),
		}).Debug("Нажата кнопка")
	}
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) > maxLoggedText {
		return string(runes[:maxLoggedText]) + "..."
	}
	return text
}
