// Package mocks предоставляет фейковый Messenger, записывающий всё отправленное.
package mocks

import (
	"context"
	"sync"

	"serotonyl.ru/finance-bot/internal/telegram"
)

// SentMessage: отправленное сообщение (с клавиатурой или без).
type SentMessage struct {
	ChatID   int64
	Text     string
	Keyboard [][]telegram.Button
}

// EditedMessage: изменённое сообщение.
type EditedMessage struct {
	ChatID    int64
	MessageID int
	Text      string
}

// AnsweredCallback: ответ на нажатие кнопки.
type AnsweredCallback struct {
	CallbackID string
	Text       string
}

// SentPhoto: отправленная картинка.
type SentPhoto struct {
	ChatID   int64
	Filename string
	Data     []byte
	Caption  string
}

var _ telegram.Messenger = (*Messenger)(nil)

// Messenger записывает все исходящие операции.
type Messenger struct {
	mu sync.Mutex

	Sent     []SentMessage
	Edited   []EditedMessage
	Answered []AnsweredCallback
	Photos   []SentPhoto

	// SendError симулирует падение SendText/SendKeyboard.
	SendError error
	// EditError симулирует падение EditText.
	EditError error
}

// NewMessenger создаёт пустой Messenger.
func NewMessenger() *Messenger {
	return &Messenger{}
}

func (m *Messenger) SendText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *Messenger) SendKeyboard(_ context.Context, chatID int64, text string, rows [][]telegram.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, Text: text, Keyboard: rows})
	return nil
}

func (m *Messenger) EditText(_ context.Context, chatID int64, messageID int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditError != nil {
		return m.EditError
	}
	m.Edited = append(m.Edited, EditedMessage{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

func (m *Messenger) AnswerCallback(_ context.Context, callbackID string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Answered = append(m.Answered, AnsweredCallback{CallbackID: callbackID, Text: text})
	return nil
}

func (m *Messenger) SendPhoto(_ context.Context, chatID int64, filename string, data []byte, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.Photos = append(m.Photos, SentPhoto{ChatID: chatID, Filename: filename, Data: data, Caption: caption})
	return nil
}

// LastSent возвращает последнее отправленное сообщение.
func (m *Messenger) LastSent() (SentMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMessage{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// SentTo возвращает все сообщения в указанный чат.
func (m *Messenger) SentTo(chatID int64) []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMessage
	for _, s := range m.Sent {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// Reset очищает записанное.
func (m *Messenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = nil
	m.Edited = nil
	m.Answered = nil
	m.Photos = nil
}
