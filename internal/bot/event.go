package bot

import "github.com/mymmrac/telego"

// Event описывает входящий апдейт без привязки к telego (команда, текст или нажатие кнопки).
type Event struct {
	UpdateID  int
	ChatID    int64
	UserID    int64
	MessageID int // Сообщение с кнопками (для callback) или само сообщение

	Text string // Текст сообщения; пусто для callback

	CallbackID   string
	CallbackData string
}

// IsCallback: нажатие inline-кнопки.
func (e Event) IsCallback() bool {
	return e.CallbackID != ""
}

// eventFromUpdate переводит апдейт telego в Event.
// false: апдейт не из тех, что бот обрабатывает.
func eventFromUpdate(update telego.Update) (Event, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		message := update.Message
		return Event{
			UpdateID:  update.UpdateID,
			ChatID:    message.Chat.ID,
			UserID:    message.From.ID,
			MessageID: message.MessageID,
			Text:      message.Text,
		}, true

	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		query := update.CallbackQuery
		return Event{
			UpdateID:     update.UpdateID,
			ChatID:       query.Message.GetChat().ID,
			UserID:       query.From.ID,
			MessageID:    query.Message.GetMessageID(),
			CallbackID:   query.ID,
			CallbackData: query.Data,
		}, true

	default:
		return Event{}, false
	}
}
