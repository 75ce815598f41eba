// Package mocks содержит in-memory хранилище отзывов для тестов.
package mocks

import (
	"context"
	"sync"
	"time"

	"serotonyl.ru/finance-bot/internal/features/feedback"
)

// Repository хранит отзывы в памяти.
type Repository struct {
	mu     sync.Mutex
	nextID int64
	rows   []feedback.Feedback

	// InsertError симулирует недоступную БД.
	InsertError error
}

// NewRepository создаёт пустое хранилище.
func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Insert(_ context.Context, f *feedback.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.InsertError != nil {
		return r.InsertError
	}
	r.nextID++
	f.ID = r.nextID
	f.CreatedAt = time.Now()
	r.rows = append(r.rows, *f)
	return nil
}

// All возвращает копию сохранённых отзывов.
func (r *Repository) All() []feedback.Feedback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]feedback.Feedback(nil), r.rows...)
}
