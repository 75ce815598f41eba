package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/finance?sslmode=disable")
	t.Setenv("OPERATOR_CHAT_ID", "777")
	t.Setenv("RENDER_EXTERNAL_HOSTNAME", "finance-bot.onrender.com")
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "123:abc", cfg.TelegramToken)
		require.Equal(t, int64(777), cfg.OperatorChatID)
		require.Equal(t, ModeWebhook, cfg.BotMode)
		require.Equal(t, int32(20), cfg.DBMaxConns)
		require.Equal(t, int32(1), cfg.DBMinConns)
		require.Equal(t, 64, cfg.BotMaxInflight)
		require.Equal(t, 30*time.Second, cfg.BotHandleTimeout)
		require.Equal(t, time.Duration(0), cfg.PendingTTL)
		require.Equal(t, "@every 10m", cfg.PendingSweepSchedule)
		require.True(t, cfg.FeatureChartEnabled)
		require.True(t, cfg.AllowGroupChats)
		require.Equal(t, "https://finance-bot.onrender.com/webhook", cfg.WebhookURL())
		require.Equal(t, ":8080", cfg.ListenAddr())
	})

	t.Run("reads overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("BOT_MODE", "polling")
		t.Setenv("PENDING_TTL", "24h")
		t.Setenv("DB_MAX_CONNS", "5")
		t.Setenv("PORT", "10000")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, ModePolling, cfg.BotMode)
		require.Equal(t, 24*time.Hour, cfg.PendingTTL)
		require.Equal(t, int32(5), cfg.DBMaxConns)
		require.Equal(t, ":10000", cfg.ListenAddr())
	})

	t.Run("requires token", func(t *testing.T) {
		setRequiredEnv(t)
		// envconfig считает пустую, но заданную переменную присутствующей
		require.NoError(t, os.Unsetenv("TELEGRAM_TOKEN"))

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("rejects bad operator id", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OPERATOR_CHAT_ID", "YOUR_CHAT_ID")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TelegramToken:           "t",
			OperatorChatID:          1,
			BotMode:                 ModeWebhook,
			PublicHostname:          "example.com",
			ListenPort:              8080,
			DatabaseURL:             "postgres://localhost/db",
			DBMaxConns:              20,
			DBMinConns:              1,
			LogFormat:               "text",
			BotMaxInflight:          64,
			BotUpdateTimeoutSeconds: 60,
			BotHandleTimeout:        time.Second,
			RateLimitRequests:       10,
			RateLimitWindow:         time.Minute,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero operator", func(c *Config) { c.OperatorChatID = 0 }},
		{"webhook without host", func(c *Config) { c.PublicHostname = "" }},
		{"unknown mode", func(c *Config) { c.BotMode = "carrier-pigeon" }},
		{"min above max", func(c *Config) { c.DBMinConns = 30 }},
		{"zero inflight", func(c *Config) { c.BotMaxInflight = 0 }},
		{"negative ttl", func(c *Config) { c.PendingTTL = -time.Minute }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero rate window", func(c *Config) { c.RateLimitWindow = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			require.Error(t, c.Validate())
		})
	}

	t.Run("polling needs no host", func(t *testing.T) {
		c := valid()
		c.BotMode = ModePolling
		c.PublicHostname = ""
		require.NoError(t, c.Validate())
	})
}
