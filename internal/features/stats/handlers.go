package stats

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/telegram"
)

const msgStatsFailed = "❌ Не удалось получить статистику, попробуйте позже."

// Handler обрабатывает /stats и /chart.
type Handler struct {
	service *Service
	bot     telegram.Messenger
}

// NewHandler создаёт обработчик статистики.
func NewHandler(service *Service, bot telegram.Messenger) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleStats: /stats
func (h *Handler) HandleStats(ctx context.Context, chatID, userID int64) {
	s, err := h.service.ComputeStats(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user", common.HashUserID(userID)).Error("Ошибка подсчёта статистики")
		h.sendMessage(ctx, chatID, msgStatsFailed)
		return
	}
	h.sendMessage(ctx, chatID, FormatStats(s))
}

// HandleChart обрабатывает /chart, та же сводка картинкой.
// Если расходов нет, отвечает текстом.
func (h *Handler) HandleChart(ctx context.Context, chatID, userID int64) {
	s, err := h.service.ComputeStats(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user", common.HashUserID(userID)).Error("Ошибка подсчёта статистики")
		h.sendMessage(ctx, chatID, msgStatsFailed)
		return
	}

	png, err := RenderExpenseChart(s)
	if errors.Is(err, ErrNoExpenses) {
		h.sendMessage(ctx, chatID, noExpenses)
		return
	}
	if err != nil {
		log.WithError(err).Error("Ошибка отрисовки диаграммы")
		h.sendMessage(ctx, chatID, FormatStats(s))
		return
	}

	caption := "Баланс: " + common.FormatAmount(s.Balance)
	if err := h.bot.SendPhoto(ctx, chatID, "expenses.png", png, caption); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки диаграммы")
	}
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.bot.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
