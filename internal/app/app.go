// Package app инициализирует все компоненты приложения.
// app.go собирает приложение: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/bot"
	"serotonyl.ru/finance-bot/internal/bot/filters"
	"serotonyl.ru/finance-bot/internal/config"
	"serotonyl.ru/finance-bot/internal/db/postgres"
	"serotonyl.ru/finance-bot/internal/features/conversation"
	"serotonyl.ru/finance-bot/internal/features/entry"
	"serotonyl.ru/finance-bot/internal/features/feedback"
	"serotonyl.ru/finance-bot/internal/features/stats"
	"serotonyl.ru/finance-bot/internal/features/transactions"
	"serotonyl.ru/finance-bot/internal/jobs"
	"serotonyl.ru/finance-bot/internal/telegram"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *telego.Bot
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Таблицы создаются идемпотентно при каждом старте
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := newBotAPI(cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := botAPI.GetMe(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка авторизации в Telegram: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	messenger := telegram.NewTelegoMessenger(botAPI)

	// === 3. Состояние диалогов (только в памяти) ===
	state := conversation.NewStore()

	// === 4. Репозитории ===
	txRepo := transactions.NewRepository(pool)
	feedbackRepo := feedback.NewRepository(pool)

	// === 5. Сервисы ===
	entryService := entry.NewService(state, txRepo)
	statsService := stats.NewService(txRepo)
	feedbackService := feedback.NewService(state, feedbackRepo, messenger, cfg.OperatorChatID)

	// === 6. Обработчики ===
	entryHandler := entry.NewHandler(entryService, messenger)
	statsHandler := stats.NewHandler(statsService, messenger)
	feedbackHandler := feedback.NewHandler(feedbackService, messenger)

	// === 7. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.AllowGroupChats)

	// === 8. Собираем бота ===
	b := bot.New(
		botAPI, cfg, messenger, pool,
		entryHandler,
		statsHandler,
		feedbackHandler,
		chatFilter,
	)
	b.SetUsername(me.Username)

	// === 9. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, state, pool)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// newBotAPI создаёт клиента telego. В development его лог идёт через logrus.
func newBotAPI(cfg *config.Config) (*telego.Bot, error) {
	var opts []telego.BotOption
	if cfg.IsDevelopment() {
		opts = append(opts, telego.WithLogger(log.StandardLogger()))
	} else {
		opts = append(opts, telego.WithDiscardLogger())
	}
	return telego.NewBot(cfg.TelegramToken, opts...)
}
