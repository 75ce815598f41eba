// Package main: точка входа бота.
// Загружает конфигурацию, инициализирует приложение и запускает.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/app"
	"serotonyl.ru/finance-bot/internal/common"
	"serotonyl.ru/finance-bot/internal/config"
)

func main() {
	// До загрузки конфига: текстовый лог с уровнем info
	setupLogging("text", "info")

	log.Info("=== Бот запускается ===")

	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}
	setupLogging(cfg.LogFormat, cfg.AppLogLevel)
	common.SetHashSalt(cfg.LogHashSalt)

	// Контекст отменяется по Ctrl+C / docker stop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем приложение (БД, бот, сервисы, обработчики)
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.DB.Close()

	// Запускаем планировщик задач (cron)
	if err := application.Scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Не удалось запустить планировщик")
	}
	defer application.Scheduler.Stop()

	log.Info("=== Бот готов к работе ===")

	// Start блокируется до сигнала остановки и дожидается обработки принятых апдейтов
	if err := application.Bot.Start(ctx); err != nil {
		log.WithError(err).Error("Бот остановлен с ошибкой")
		return
	}

	log.Info("=== Бот остановлен ===")
}

// setupLogging настраивает формат и уровень логов.
func setupLogging(format, level string) {
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("Неизвестный уровень логов, используем info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
