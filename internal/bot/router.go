package bot

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/features/entry"
	"serotonyl.ru/finance-bot/internal/features/feedback"
	"serotonyl.ru/finance-bot/internal/features/transactions"
)

const msgChartDisabled = "📉 Диаграммы временно отключены"

// helpText: ответ на /start и /help.
func helpText(chartEnabled bool) string {
	var sb strings.Builder
	sb.WriteString("Привет! Я бот для трекинга финансов.\n")
	sb.WriteString("Добавляй траты: /add_expense сумма\n")
	sb.WriteString("Добавляй доходы: /add_income сумма\n")
	sb.WriteString("Смотри статистику: /stats\n")
	if chartEnabled {
		sb.WriteString("Диаграмма расходов: /chart\n")
	}
	sb.WriteString("Оставь отзыв: /feedback\n")
	sb.WriteString("Передумал: /cancel\n")
	sb.WriteString("Поделись мной с друзьями! 😊")
	return sb.String()
}

// Dispatch обрабатывает одно событие. Вызывается из handleUpdate и напрямую из тестов.
func (b *Bot) Dispatch(ctx context.Context, ev Event) {
	if ev.IsCallback() {
		b.handleCallback(ctx, ev)
		return
	}

	cmd, isCommand := b.parser.ParseCommand(ev.Text)
	log.WithFields(log.Fields{
		"isCommand": isCommand,
		"cmd":       cmd.Name,
		"args":      len(cmd.Args),
	}).Debug("parsed command")

	if isCommand {
		if !b.addressedToMe(cmd) {
			return
		}
		if b.routeCommand(ctx, ev, cmd) {
			return
		}
		if cmd.IsSlash() {
			// Неизвестная /команда: режим отзыва не трогаем
			b.sendMessage(ctx, ev.ChatID, feedback.MsgUnrecognized)
			return
		}
		// "!!!" или "...": обычный текст
	}

	b.feedbackHandler.HandleText(ctx, ev.ChatID, ev.UserID, ev.Text)
}

// addressedToMe: в группах /cmd@OtherBot адресована не нам.
func (b *Bot) addressedToMe(cmd Command) bool {
	if cmd.Mention == "" || b.username == "" {
		return true
	}
	return strings.EqualFold(cmd.Mention, b.username)
}

// routeCommand маршрутизирует команду к нужному обработчику.
// false: команда неизвестна.
func (b *Bot) routeCommand(ctx context.Context, ev Event, cmd Command) bool {
	log.WithFields(log.Fields{
		"cmd":  cmd.Name,
		"user": common.HashUserID(ev.UserID),
	}).Debug("routing command")

	switch cmd.Name {
	case "start", "help":
		b.sendMessage(ctx, ev.ChatID, helpText(b.cfg.FeatureChartEnabled))

	case "add_expense":
		b.entryHandler.HandleAddEntry(ctx, ev.ChatID, ev.UserID, transactions.KindExpense, cmd.Args)

	case "add_income":
		b.entryHandler.HandleAddEntry(ctx, ev.ChatID, ev.UserID, transactions.KindIncome, cmd.Args)

	case "stats":
		b.statsHandler.HandleStats(ctx, ev.ChatID, ev.UserID)

	case "chart":
		if b.cfg.FeatureChartEnabled {
			b.statsHandler.HandleChart(ctx, ev.ChatID, ev.UserID)
		} else {
			b.sendMessage(ctx, ev.ChatID, msgChartDisabled)
		}

	case "feedback":
		b.feedbackHandler.HandleFeedback(ctx, ev.ChatID, ev.UserID)

	case "cancel":
		b.entryHandler.HandleCancel(ctx, ev.ChatID, ev.UserID)

	default:
		return false
	}
	return true
}

// handleCallback обрабатывает нажатие inline-кнопки.
func (b *Bot) handleCallback(ctx context.Context, ev Event) {
	category, ok := entry.ParseCallback(ev.CallbackData)
	if !ok {
		// Чужая или устаревшая кнопка: просто гасим «часики»
		if err := b.messenger.AnswerCallback(ctx, ev.CallbackID, ""); err != nil {
			log.WithError(err).Debug("Не удалось ответить на callback")
		}
		return
	}
	b.entryHandler.HandleCategorySelected(ctx, ev.ChatID, ev.MessageID, ev.UserID, ev.CallbackID, category)
}

// sendMessage: утилита для отправки сообщений.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := b.messenger.SendText(ctx, chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
