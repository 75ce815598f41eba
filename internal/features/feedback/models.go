// Package feedback принимает отзывы пользователей и пересылает их оператору.
// models.go описывает запись отзыва.
package feedback

import "time"

// Feedback: отзыв пользователя. После записи не меняется.
type Feedback struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Message   string    `db:"message"` // Текст как есть
	CreatedAt time.Time `db:"date"`    // Проставляет БД
}
