// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры,
// godotenv: чтобы подхватить локальный .env при разработке.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Режимы получения апдейтов
const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

// WebhookPath: путь, на который Telegram присылает апдейты.
const WebhookPath = "/webhook"

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	// Кому пересылать отзывы. Обязателен, значения по умолчанию нет.
	OperatorChatID int64 `envconfig:"OPERATOR_CHAT_ID" required:"true"`

	// --- Webhook ---
	BotMode        string `envconfig:"BOT_MODE" default:"webhook"`
	PublicHostname string `envconfig:"RENDER_EXTERNAL_HOSTNAME"`
	ListenPort     int    `envconfig:"PORT" default:"8080"`
	// Пустой: telego сгенерирует секрет сам
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`

	// --- Database ---
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"production"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	LogHashSalt string `envconfig:"LOG_HASH_SALT"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`
	// Сколько максимум живёт обработка одного апдейта (включая ожидание соединения из пула)
	BotHandleTimeout time.Duration `envconfig:"BOT_HANDLE_TIMEOUT" default:"30s"`

	// --- Conversation ---
	// 0: ожидающие суммы живут, пока их не заберут или не перезапишут
	PendingTTL           time.Duration `envconfig:"PENDING_TTL" default:"0"`
	PendingSweepSchedule string        `envconfig:"PENDING_SWEEP_SCHEDULE" default:"@every 10m"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"20"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureChartEnabled bool `envconfig:"FEATURE_CHART_ENABLED" default:"true"`
	// false: бот отвечает только в личке
	AllowGroupChats bool `envconfig:"ALLOW_GROUP_CHATS" default:"true"`
}

// WebhookURL возвращает публичный адрес вебхука.
func (c *Config) WebhookURL() string {
	return fmt.Sprintf("https://%s%s", c.PublicHostname, WebhookPath)
}

// ListenAddr возвращает адрес HTTP-сервера вебхука.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.ListenPort)
}

// IsDevelopment: включает отладочный лог telego.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Validate() error {
	if c.OperatorChatID == 0 {
		return fmt.Errorf("OPERATOR_CHAT_ID не задан или равен 0")
	}
	switch c.BotMode {
	case ModeWebhook:
		if c.PublicHostname == "" {
			return fmt.Errorf("RENDER_EXTERNAL_HOSTNAME обязателен в режиме webhook")
		}
		if c.ListenPort <= 0 || c.ListenPort > 65535 {
			return fmt.Errorf("PORT вне диапазона: %d", c.ListenPort)
		}
	case ModePolling:
	default:
		return fmt.Errorf("BOT_MODE должен быть %q или %q, получено %q", ModeWebhook, ModePolling, c.BotMode)
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.BotHandleTimeout <= 0 {
		return fmt.Errorf("BOT_HANDLE_TIMEOUT должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.PendingTTL < 0 {
		return fmt.Errorf("PENDING_TTL не может быть отрицательным")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("некорректные RATE_LIMIT_REQUESTS/RATE_LIMIT_WINDOW")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT должен быть text или json")
	}
	return nil
}

// Load читает .env (если есть) и переменные окружения, заполняет Config.
func Load() (*Config, error) {
	// .env нужен только локально, в проде его нет
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
