// Package entry: handlers.go обрабатывает команды:
// /add_expense, /add_income (шаг 1), нажатие кнопки категории (шаг 2), /cancel.
package entry

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/features/transactions"
	"serotonyl.ru/finance-bot/internal/telegram"
)

// Тексты ответов
const (
	msgRetry          = "Ошибка: попробуйте заново."
	msgStorageFailed  = "❌ Не удалось сохранить, попробуйте ещё раз чуть позже."
	msgCancelled      = "Ок, отменено."
	msgNothingToClear = "Нечего отменять."
)

// Handler обрабатывает команды записи транзакций.
type Handler struct {
	service *Service           // Сервис записи
	bot     telegram.Messenger // Отправка ответов
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service, bot telegram.Messenger) *Handler {
	return &Handler{service: service, bot: bot}
}

// usage: подсказка по команде для типа.
func usage(kind transactions.Kind) string {
	if kind == transactions.KindIncome {
		return "Используй: /add_income сумма (например, /add_income 10000)"
	}
	return "Используй: /add_expense сумма (например, /add_expense 500)"
}

// prompt: текст над кнопками категорий.
func prompt(kind transactions.Kind, amount string) string {
	if kind == transactions.KindIncome {
		return fmt.Sprintf("Выберите категорию для дохода %s:", amount)
	}
	return fmt.Sprintf("Выберите категорию для расхода %s:", amount)
}

// Confirmation: текст после успешной записи.
func Confirmation(tx *transactions.Transaction) string {
	return fmt.Sprintf("%s %s в категории «%s» добавлен.",
		tx.Kind.Title(), common.FormatAmount(tx.Amount), tx.Category)
}

// HandleAddEntry обрабатывает /add_expense и /add_income.
// Берётся первый аргумент, остальные игнорируются.
//
// Формат: /add_expense 500
func (h *Handler) HandleAddEntry(ctx context.Context, chatID, userID int64, kind transactions.Kind, args []string) {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}

	amount, categories, err := h.service.BeginEntry(userID, raw, kind)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidAmount) {
			log.WithError(err).Error("Ошибка начала записи транзакции")
		}
		h.sendMessage(ctx, chatID, usage(kind))
		return
	}

	if err := h.bot.SendKeyboard(ctx, chatID, prompt(kind, common.FormatAmount(amount)), CategoryKeyboard(categories)); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки клавиатуры категорий")
	}
}

// HandleCategorySelected обрабатывает нажатие кнопки категории.
// Сообщение с кнопками превращается в подтверждение или в просьбу повторить.
func (h *Handler) HandleCategorySelected(ctx context.Context, chatID int64, messageID int, userID int64, callbackID, category string) {
	if err := h.bot.AnswerCallback(ctx, callbackID, ""); err != nil {
		log.WithError(err).Debug("Не удалось ответить на callback")
	}

	tx, err := h.service.ResolveCategory(ctx, userID, category)
	switch {
	case err == nil:
		h.replaceMessage(ctx, chatID, messageID, Confirmation(tx))
	case errors.Is(err, common.ErrNoPendingEntry):
		h.replaceMessage(ctx, chatID, messageID, msgRetry)
	default:
		// ErrStorageUnavailable и всё неожиданное: одна и та же общая ошибка
		h.sendMessage(ctx, chatID, msgStorageFailed)
	}
}

// HandleCancel обрабатывает /cancel: сбрасывает незавершённые действия.
func (h *Handler) HandleCancel(ctx context.Context, chatID, userID int64) {
	if h.service.Cancel(userID) {
		h.sendMessage(ctx, chatID, msgCancelled)
		return
	}
	h.sendMessage(ctx, chatID, msgNothingToClear)
}

// replaceMessage редактирует сообщение с кнопками; если не вышло: шлёт новое.
func (h *Handler) replaceMessage(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID != 0 {
		err := h.bot.EditText(ctx, chatID, messageID, text)
		if err == nil {
			return
		}
		log.WithError(err).Debug("Не удалось отредактировать сообщение, отправляем новое")
	}
	h.sendMessage(ctx, chatID, text)
}

// sendMessage: вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.bot.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
