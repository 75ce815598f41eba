package jobs

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/finance-bot/internal/config"
	"serotonyl.ru/finance-bot/internal/features/conversation"
	"serotonyl.ru/finance-bot/internal/features/transactions"
)

func TestScheduler_SweepPending(t *testing.T) {
	t.Run("evicts entries older than ttl", func(t *testing.T) {
		state := conversation.NewStore()
		s := NewScheduler(&config.Config{PendingTTL: time.Hour, PendingSweepSchedule: "@every 10m"}, state, nil)

		state.SetPending(1, decimal.NewFromInt(100), transactions.KindExpense)
		state.SetPending(2, decimal.NewFromInt(200), transactions.KindIncome)

		require.Zero(t, s.SweepPending(time.Now()))
		require.Equal(t, 2, s.SweepPending(time.Now().Add(2*time.Hour)))
		require.False(t, state.HasPending(1))
		require.False(t, state.HasPending(2))
	})

	t.Run("disabled without ttl", func(t *testing.T) {
		state := conversation.NewStore()
		s := NewScheduler(&config.Config{}, state, nil)

		state.SetPending(1, decimal.NewFromInt(100), transactions.KindExpense)
		require.Zero(t, s.SweepPending(time.Now().Add(24*time.Hour)))
		require.True(t, state.HasPending(1))
	})

	t.Run("feedback mode survives", func(t *testing.T) {
		state := conversation.NewStore()
		s := NewScheduler(&config.Config{PendingTTL: time.Minute}, state, nil)

		state.SetFeedbackMode(1, true)
		s.SweepPending(time.Now().Add(time.Hour))
		require.True(t, state.ConsumeFeedbackMode(1))
	})
}

func TestScheduler_Start(t *testing.T) {
	t.Run("bad schedule", func(t *testing.T) {
		s := NewScheduler(&config.Config{PendingTTL: time.Minute, PendingSweepSchedule: "каждые 5 минут"}, conversation.NewStore(), nil)
		require.Error(t, s.Start())
	})

	t.Run("start and stop", func(t *testing.T) {
		s := NewScheduler(&config.Config{PendingTTL: time.Minute, PendingSweepSchedule: "@every 10m"}, conversation.NewStore(), nil)
		require.NoError(t, s.Start())
		require.Len(t, s.cron.Entries(), 1)
		s.Stop()
	})

	t.Run("no jobs without ttl and pool", func(t *testing.T) {
		s := NewScheduler(&config.Config{}, conversation.NewStore(), nil)
		require.NoError(t, s.Start())
		require.Empty(t, s.cron.Entries())
		s.Stop()
	})
}
