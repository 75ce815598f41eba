package feedback

import (
	"context"
	"fmt"

	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/db/postgres"
)

// Repository пишет отзывы в таблицу feedback.
type Repository struct {
	db postgres.DB
}

// NewRepository создаёт репозиторий отзывов.
func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

// Insert сохраняет отзыв и заполняет ID и CreatedAt.
func (r *Repository) Insert(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO feedback (user_id, message)
		VALUES ($1, $2)
		RETURNING id, date
	`
	if err := r.db.QueryRow(ctx, query, f.UserID, f.Message).Scan(&f.ID, &f.CreatedAt); err != nil {
		return fmt.Errorf("%w: ошибка записи отзыва: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}
