package feedback

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/telegram"
)

const (
	msgPrompt       = "Напишите ваш отзыв или предложение, и я передам его создателю!"
	msgThanks       = "Спасибо за отзыв! Он передан создателю."
	msgFailed       = "❌ Не удалось сохранить отзыв, попробуйте ещё раз: /feedback"
	MsgUnrecognized = "Используй команды: /start, /add_expense, /add_income, /stats, /feedback"
)

// Handler обрабатывает /feedback и свободный текст.
type Handler struct {
	service *Service
	bot     telegram.Messenger
}

// NewHandler создаёт обработчик отзывов.
func NewHandler(service *Service, bot telegram.Messenger) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleFeedback: /feedback
func (h *Handler) HandleFeedback(ctx context.Context, chatID, userID int64) {
	h.service.BeginFeedback(userID)
	h.sendMessage(ctx, chatID, msgPrompt)
}

// HandleText обрабатывает любое сообщение, которое не является командой.
// Без режима отзыва пользователю напоминают список команд.
func (h *Handler) HandleText(ctx context.Context, chatID, userID int64, text string) {
	_, err := h.service.CaptureFeedback(ctx, userID, text)
	switch {
	case err == nil:
		h.sendMessage(ctx, chatID, msgThanks)
	case errors.Is(err, common.ErrUnrecognizedInput):
		h.sendMessage(ctx, chatID, MsgUnrecognized)
	default:
		log.WithError(err).WithField("user", common.HashUserID(userID)).Error("Ошибка записи отзыва")
		h.sendMessage(ctx, chatID, msgFailed)
	}
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.bot.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
