// Package common: errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки записи транзакций
var (
	// ErrInvalidAmount: сумма не указана, не число или не положительная
	ErrInvalidAmount = errors.New("сумма должна быть положительным числом")
	// ErrNoPendingEntry: выбрана категория, но ожидающей суммы нет
	ErrNoPendingEntry = errors.New("нет ожидающей записи")
)

// Ошибки хранилища
var (
	// ErrStorageUnavailable: пул соединений исчерпан или БД недоступна.
	// Репозитории оборачивают в неё любую ошибку pgx.
	ErrStorageUnavailable = errors.New("хранилище недоступно")
)

// Ошибки диалога
var (
	// ErrUnrecognizedInput: свободный текст вне режима отзыва
	ErrUnrecognizedInput = errors.New("нераспознанный ввод")
)
