// Package bot содержит главный модуль бота: приём апдейтов, фильтрацию и маршрутизацию.
// bot.go отвечает за запуск в режиме webhook или long polling и остановку.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/bot/filters"
	"serotonyl.ru/finance-bot/internal/bot/middleware"
	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/config"
	"serotonyl.ru/finance-bot/internal/features/entry"
	"serotonyl.ru/finance-bot/internal/features/feedback"
	"serotonyl.ru/finance-bot/internal/features/stats"
	"serotonyl.ru/finance-bot/internal/telegram"
)

// Таймауты HTTP-сервера вебхука
const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	healthTimeout     = 2 * time.Second
)

// allowedUpdates: какие апдейты просим у Telegram.
var allowedUpdates = []string{"message", "callback_query"}

// HealthChecker проверяет, живы ли зависимости (БД).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Bot: главная структура бота, объединяющая все компоненты.
type Bot struct {
	api       *telego.Bot
	cfg       *config.Config
	messenger telegram.Messenger
	health    HealthChecker

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	entryHandler    *entry.Handler
	statsHandler    *stats.Handler
	feedbackHandler *feedback.Handler

	parser   *CommandParser
	username string // @имя бота, для /cmd@Bot

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
	wg       sync.WaitGroup
}

// New создаёт новый экземпляр бота со всеми зависимостями.
// api может быть nil, если бот используется только через Dispatch (тесты).
func New(
	api *telego.Bot,
	cfg *config.Config,
	messenger telegram.Messenger,
	health HealthChecker,
	entryHandler *entry.Handler,
	statsHandler *stats.Handler,
	feedbackHandler *feedback.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:             api,
		cfg:             cfg,
		messenger:       messenger,
		health:          health,
		chatFilter:      chatFilter,
		rateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		entryHandler:    entryHandler,
		statsHandler:    statsHandler,
		feedbackHandler: feedbackHandler,
		parser:          NewCommandParser(),
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// SetUsername запоминает @имя бота (из getMe).
func (b *Bot) SetUsername(username string) {
	b.username = username
}

// RateLimiter отдаёт лимитер (для планировщика и остановки).
func (b *Bot) RateLimiter() *middleware.RateLimiter {
	return b.rateLimiter
}

// Start получает апдейты и обрабатывает их, пока не отменён ctx.
// Перед возвратом дожидается обработки уже принятых апдейтов.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("telegram API не инициализирован")
	}

	var (
		updates   <-chan telego.Update
		serverErr <-chan error
		stop      = func() {}
		err       error
	)
	switch b.cfg.BotMode {
	case config.ModePolling:
		updates, err = b.pollingUpdates(ctx)
	default:
		updates, serverErr, stop, err = b.webhookUpdates(ctx)
	}
	if err != nil {
		return err
	}
	defer func() {
		stop()
		b.wg.Wait()
		b.rateLimiter.Close()
		log.Info("Все апдейты обработаны")
	}()

	log.WithFields(log.Fields{
		"mode":         b.cfg.BotMode,
		"max_inflight": cap(b.inflight),
		"username":     b.username,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			return nil

		case err := <-serverErr:
			return fmt.Errorf("HTTP-сервер вебхука упал: %w", err)

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return nil
			}

			// лимит параллелизма
			select {
			case b.inflight <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
			b.wg.Add(1)
			go func(upd telego.Update) {
				defer b.wg.Done()
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// pollingUpdates снимает вебхук и включает long polling.
func (b *Bot) pollingUpdates(ctx context.Context) (<-chan telego.Update, error) {
	if err := b.api.DeleteWebhook(ctx, &telego.DeleteWebhookParams{}); err != nil {
		log.WithError(err).Warn("Не удалось снять вебхук")
	}

	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout:        b.cfg.BotUpdateTimeoutSeconds,
		AllowedUpdates: allowedUpdates,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка запуска long polling: %w", err)
	}
	return updates, nil
}

// webhookUpdates поднимает HTTP-сервер с /webhook и /healthz и регистрирует вебхук.
func (b *Bot) webhookUpdates(ctx context.Context) (<-chan telego.Update, <-chan error, func(), error) {
	secret := b.cfg.WebhookSecret
	if secret == "" {
		secret = b.api.SecretToken()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", b.handleHealth)

	updates, err := b.api.UpdatesViaWebhook(ctx,
		telego.WebhookHTTPServeMux(mux, http.MethodPost+" "+config.WebhookPath, secret))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ошибка регистрации обработчика вебхука: %w", err)
	}

	srv := &http.Server{
		Addr:              b.cfg.ListenAddr(),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP-сервер остановлен с ошибкой")
		}
	}

	err = b.api.SetWebhook(ctx, &telego.SetWebhookParams{
		URL:            b.cfg.WebhookURL(),
		SecretToken:    secret,
		AllowedUpdates: allowedUpdates,
	})
	if err != nil {
		stop()
		return nil, nil, nil, fmt.Errorf("ошибка установки вебхука: %w", err)
	}

	log.WithFields(log.Fields{
		"url":  b.cfg.WebhookURL(),
		"addr": b.cfg.ListenAddr(),
	}).Info("Вебхук установлен")

	return updates, serverErr, stop, nil
}

// handleHealth отвечает на GET /healthz: 200, если БД отвечает.
func (b *Bot) handleHealth(w http.ResponseWriter, r *http.Request) {
	if b.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := b.health.Ping(ctx); err != nil {
			log.WithError(err).Warn("healthz: БД недоступна")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic(update.UpdateID)

	// Логируем входящее
	middleware.LogUpdate(update)

	if !b.chatFilter.CheckAccess(update) {
		return
	}

	ev, ok := eventFromUpdate(update)
	if !ok {
		return
	}

	// Rate limiting
	if !b.rateLimiter.Allow(ev.UserID) {
		log.WithField("user", common.HashUserID(ev.UserID)).Debug("rate limited")
		return
	}

	// Начатую обработку доводим до конца даже при остановке, но не дольше таймаута
	handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.cfg.BotHandleTimeout)
	defer cancel()

	b.Dispatch(handleCtx, ev)
}
