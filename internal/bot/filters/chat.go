// Package filters отсекает апдейты, которые бот не обрабатывает.
package filters

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает текстовые сообщения и нажатия кнопок от живых пользователей.
type ChatFilter struct {
	allowGroups bool
}

// NewChatFilter создаёт фильтр. allowGroups=false: только личные чаты.
func NewChatFilter(allowGroups bool) *ChatFilter {
	return &ChatFilter{allowGroups: allowGroups}
}

// CheckAccess решает, обрабатывать ли апдейт.
func (f *ChatFilter) CheckAccess(update telego.Update) bool {
	logger := log.WithField("component", "ChatFilter")

	switch {
	case update.Message != nil:
		message := update.Message
		logger = logger.WithFields(log.Fields{
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		})
		if message.From == nil {
			logger.Debug("deny: nil message.From (service/channel message?)")
			return false
		}
		if message.From.IsBot {
			logger.Debug("deny: message from bot")
			return false
		}
		if message.Text == "" {
			return false
		}
		return f.chatAllowed(logger, message.Chat.Type)

	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if query.Message == nil {
			// Без сообщения не понятно, куда отвечать
			logger.Debug("deny: callback without message")
			return false
		}
		return f.chatAllowed(logger, query.Message.GetChat().Type)

	default:
		return false
	}
}

func (f *ChatFilter) chatAllowed(logger *log.Entry, chatType string) bool {
	if chatType == telego.ChatTypePrivate || f.allowGroups {
		return true
	}
	logger.Debug("deny: group chat")
	return false
}
