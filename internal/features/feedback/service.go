package feedback

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/features/conversation"
	"serotonyl.ru/finance-bot/internal/telegram"
)

// Writer: куда сохраняются отзывы.
type Writer interface {
	Insert(ctx context.Context, f *Feedback) error
}

// Service ведёт режим отзыва и доставку оператору.
type Service struct {
	state          *conversation.Store
	repo           Writer
	notifier       telegram.Messenger
	operatorChatID int64
}

// NewService создаёт сервис отзывов.
// operatorChatID: чат, куда пересылается каждый отзыв.
func NewService(state *conversation.Store, repo Writer, notifier telegram.Messenger, operatorChatID int64) *Service {
	return &Service{
		state:          state,
		repo:           repo,
		notifier:       notifier,
		operatorChatID: operatorChatID,
	}
}

// BeginFeedback включает режим отзыва. Следующий свободный текст станет отзывом.
func (s *Service) BeginFeedback(userID int64) {
	s.state.SetFeedbackMode(userID, true)
}

// CaptureFeedback принимает свободный текст.
// Режим отзыва сбрасывается в любом случае, даже если запись не удалась.
//
// Ошибки:
//   - common.ErrUnrecognizedInput: режим не был включён;
//   - common.ErrStorageUnavailable: отзыв не записан, оператор не уведомлён.
func (s *Service) CaptureFeedback(ctx context.Context, userID int64, text string) (*Feedback, error) {
	if !s.state.ConsumeFeedbackMode(userID) {
		return nil, common.ErrUnrecognizedInput
	}

	f := &Feedback{UserID: userID, Message: text}
	if err := s.repo.Insert(ctx, f); err != nil {
		return nil, err
	}

	log.WithField("user", common.HashUserID(userID)).Info("Получен отзыв")

	// Уведомление не влияет на результат: отзыв уже сохранён
	if err := s.notifier.SendText(ctx, s.operatorChatID, NotifyText(userID, text)); err != nil {
		log.WithError(err).Warn("Не удалось переслать отзыв оператору")
	}
	return f, nil
}

// NotifyText: сообщение оператору.
func NotifyText(userID int64, text string) string {
	return fmt.Sprintf("Отзыв от %d: %s", userID, text)
}
