package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/finance-bot/internal/bot/filters"
	"serotonyl.ru/finance-bot/internal/config"
	"serotonyl.ru/finance-bot/internal/features/conversation"
	"serotonyl.ru/finance-bot/internal/features/entry"
	"serotonyl.ru/finance-bot/internal/features/feedback"
	fbmocks "serotonyl.ru/finance-bot/internal/features/feedback/mocks"
	"serotonyl.ru/finance-bot/internal/features/stats"
	"serotonyl.ru/finance-bot/internal/features/transactions"
	txmocks "serotonyl.ru/finance-bot/internal/features/transactions/mocks"
	tgmocks "serotonyl.ru/finance-bot/internal/telegram/mocks"
)

const operatorChat = int64(999)

type testBot struct {
	*Bot
	tg     *tgmocks.Messenger
	txRepo *txmocks.Repository
	fbRepo *fbmocks.Repository
	state  *conversation.Store
}

func testConfig() *config.Config {
	return &config.Config{
		OperatorChatID:      operatorChat,
		BotMode:             config.ModePolling,
		BotMaxInflight:      8,
		BotHandleTimeout:    5 * time.Second,
		RateLimitRequests:   1000,
		RateLimitWindow:     time.Minute,
		FeatureChartEnabled: true,
		AllowGroupChats:     true,
	}
}

func newTestBot(t *testing.T, cfg *config.Config) *testBot {
	t.Helper()
	tb := &testBot{
		tg:     tgmocks.NewMessenger(),
		txRepo: txmocks.NewRepository(),
		fbRepo: fbmocks.NewRepository(),
		state:  conversation.NewStore(),
	}
	entryHandler := entry.NewHandler(entry.NewService(tb.state, tb.txRepo), tb.tg)
	statsHandler := stats.NewHandler(stats.NewService(tb.txRepo), tb.tg)
	fbService := feedback.NewService(tb.state, tb.fbRepo, tb.tg, cfg.OperatorChatID)
	feedbackHandler := feedback.NewHandler(fbService, tb.tg)

	tb.Bot = New(nil, cfg, tb.tg, nil, entryHandler, statsHandler, feedbackHandler, filters.NewChatFilter(cfg.AllowGroupChats))
	tb.SetUsername("FinBot")
	t.Cleanup(tb.rateLimiter.Close)
	return tb
}

func text(userID int64, s string) Event {
	return Event{ChatID: userID, UserID: userID, MessageID: 1, Text: s}
}

func press(userID int64, messageID int, data string) Event {
	return Event{
		ChatID:       userID,
		UserID:       userID,
		MessageID:    messageID,
		CallbackID:   fmt.Sprintf("cb-%d-%d", userID, messageID),
		CallbackData: data,
	}
}

func (tb *testBot) lastText(t *testing.T) string {
	t.Helper()
	msg, ok := tb.tg.LastSent()
	require.True(t, ok, "nothing was sent")
	return msg.Text
}

func TestDispatch_Start(t *testing.T) {
	ctx := context.Background()

	for _, cmd := range []string{"/start", "/help", "/start@FinBot", "!start"} {
		t.Run(cmd, func(t *testing.T) {
			tb := newTestBot(t, testConfig())
			tb.Dispatch(ctx, text(1, cmd))
			require.Contains(t, tb.lastText(t), "Привет! Я бот для трекинга финансов.")
			require.Contains(t, tb.lastText(t), "/chart")
		})
	}

	t.Run("chart hidden when disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.FeatureChartEnabled = false
		tb := newTestBot(t, cfg)

		tb.Dispatch(ctx, text(1, "/start"))
		require.NotContains(t, tb.lastText(t), "/chart")

		tb.Dispatch(ctx, text(1, "/chart"))
		require.Equal(t, msgChartDisabled, tb.lastText(t))
	})
}

func TestDispatch_EntryFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("expense then category", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "/add_expense 500"))
		msg, _ := tb.tg.LastSent()
		require.Equal(t, "Выберите категорию для расхода 500:", msg.Text)
		require.Equal(t, entry.CategoryKeyboard(entry.ExpenseCategories), msg.Keyboard)

		tb.Dispatch(ctx, press(1, 2, msg.Keyboard[0][0].Data))

		rows := tb.txRepo.ByUser(1)
		require.Len(t, rows, 1)
		require.Equal(t, transactions.KindExpense, rows[0].Kind)
		require.Equal(t, "Еда", rows[0].Category)
		require.True(t, rows[0].Amount.Equal(decimal.NewFromInt(500)))
		require.Equal(t, "Расход 500 в категории «Еда» добавлен.", tb.tg.Edited[0].Text)
	})

	t.Run("usage hint", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "/add_income"))
		require.Equal(t, "Используй: /add_income сумма (например, /add_income 10000)", tb.lastText(t))
		require.False(t, tb.state.HasPending(1))
	})

	t.Run("category without pending", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, press(1, 2, "cat:Еда"))
		require.Equal(t, "Ошибка: попробуйте заново.", tb.tg.Edited[0].Text)
		require.Empty(t, tb.txRepo.All())
	})

	t.Run("foreign callback is answered", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, press(1, 2, "something-else"))
		require.Len(t, tb.tg.Answered, 1)
		require.Empty(t, tb.tg.Edited)
		require.Empty(t, tb.tg.Sent)
	})

	t.Run("cancel", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "/add_expense 10"))
		tb.Dispatch(ctx, text(1, "/cancel"))
		require.False(t, tb.state.HasPending(1))
	})
}

func TestDispatch_Stats(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, testConfig())

	tb.Dispatch(ctx, text(1, "/add_income 1000"))
	tb.Dispatch(ctx, press(1, 2, "cat:Зарплата"))
	tb.Dispatch(ctx, text(1, "/add_expense 200"))
	tb.Dispatch(ctx, press(1, 3, "cat:Еда"))
	tb.Dispatch(ctx, text(1, "/add_expense 50"))
	tb.Dispatch(ctx, press(1, 4, "cat:Еда"))

	tb.Dispatch(ctx, text(1, "/stats"))
	want := "📊 Статистика:\nБаланс: 750\nДоходы: 1 000\nРасходы: 250\n\nРасходы по категориям:\nЕда: 250"
	require.Equal(t, want, tb.lastText(t))

	tb.Dispatch(ctx, text(1, "/chart"))
	require.Len(t, tb.tg.Photos, 1)
}

func TestDispatch_Feedback(t *testing.T) {
	ctx := context.Background()

	t.Run("captured and forwarded", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "/feedback"))
		tb.Dispatch(ctx, text(1, "great bot"))

		require.Len(t, tb.fbRepo.All(), 1)
		require.Equal(t, "Отзыв от 1: great bot", tb.tg.SentTo(operatorChat)[0].Text)
		require.Equal(t, "Спасибо за отзыв! Он передан создателю.", tb.tg.SentTo(1)[1].Text)

		tb.Dispatch(ctx, text(1, "ещё"))
		require.Equal(t, feedback.MsgUnrecognized, tb.lastText(t))
	})

	t.Run("text with bang is feedback, not a command", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "/feedback"))
		tb.Dispatch(ctx, text(1, "!!! супер"))

		rows := tb.fbRepo.All()
		require.Len(t, rows, 1)
		require.Equal(t, "!!! супер", rows[0].Message)
	})

	t.Run("unknown slash command keeps feedback mode", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "/feedback"))
		tb.Dispatch(ctx, text(1, "/unknown"))
		require.Equal(t, feedback.MsgUnrecognized, tb.lastText(t))

		tb.Dispatch(ctx, text(1, "отзыв"))
		require.Len(t, tb.fbRepo.All(), 1)
	})

	t.Run("command for another bot is ignored", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "/stats@OtherBot"))
		require.Empty(t, tb.tg.Sent)
	})

	t.Run("free text without mode", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.Dispatch(ctx, text(1, "привет"))
		require.Equal(t, feedback.MsgUnrecognized, tb.lastText(t))
		require.Empty(t, tb.fbRepo.All())
	})
}

func TestDispatch_ConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, testConfig())
	const users = 100

	var wg sync.WaitGroup
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			tb.Dispatch(ctx, text(userID, fmt.Sprintf("/add_expense %d", userID*10)))
			tb.Dispatch(ctx, press(userID, 2, "cat:"+fmt.Sprint(userID)))
		}(i)
	}
	wg.Wait()

	for i := int64(1); i <= users; i++ {
		rows := tb.txRepo.ByUser(i)
		require.Len(t, rows, 1)
		require.True(t, rows[0].Amount.Equal(decimal.NewFromInt(i*10)))
		require.Equal(t, fmt.Sprint(i), rows[0].Category)
	}
}

func TestHandleUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("message", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.handleUpdate(ctx, telego.Update{
			UpdateID: 1,
			Message: &telego.Message{
				MessageID: 10,
				From:      &telego.User{ID: 5},
				Chat:      telego.Chat{ID: 5, Type: telego.ChatTypePrivate},
				Text:      "/add_expense 42",
			},
		})
		require.True(t, tb.state.HasPending(5))
	})

	t.Run("callback", func(t *testing.T) {
		tb := newTestBot(t, testConfig())
		tb.state.SetPending(5, decimal.NewFromInt(42), transactions.KindExpense)

		tb.handleUpdate(ctx, telego.Update{
			UpdateID: 2,
			CallbackQuery: &telego.CallbackQuery{
				ID:   "q1",
				From: telego.User{ID: 5},
				Message: &telego.Message{
					MessageID: 11,
					Chat:      telego.Chat{ID: 5, Type: telego.ChatTypePrivate},
				},
				Data: "cat:Транспорт",
			},
		})
		require.Len(t, tb.txRepo.ByUser(5), 1)
		require.Equal(t, 11, tb.tg.Edited[0].MessageID)
		require.Equal(t, "q1", tb.tg.Answered[0].CallbackID)
	})

	t.Run("rate limited", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimitRequests = 1
		tb := newTestBot(t, cfg)

		for i := 0; i < 3; i++ {
			tb.handleUpdate(ctx, telego.Update{
				UpdateID: i,
				Message: &telego.Message{
					From: &telego.User{ID: 5},
					Chat: telego.Chat{ID: 5, Type: telego.ChatTypePrivate},
					Text: "/start",
				},
			})
		}
		require.Len(t, tb.tg.Sent, 1)
	})

	t.Run("filtered", func(t *testing.T) {
		tb := newTestBot(t, testConfig())

		tb.handleUpdate(ctx, telego.Update{
			Message: &telego.Message{Chat: telego.Chat{ID: -100, Type: telego.ChatTypeChannel}, Text: "/start"},
		})
		require.Empty(t, tb.tg.Sent)
	})
}

type fakeHealth struct{ err error }

func (f fakeHealth) Ping(context.Context) error { return f.err }

func TestHandleHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		tb := newTestBot(t, testConfig())
		tb.health = fakeHealth{}

		rec := httptest.NewRecorder()
		tb.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("db down", func(t *testing.T) {
		tb := newTestBot(t, testConfig())
		tb.health = fakeHealth{err: errors.New("connection refused")}

		rec := httptest.NewRecorder()
		tb.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestStart_WithoutAPI(t *testing.T) {
	tb := newTestBot(t, testConfig())
	require.Error(t, tb.Start(context.Background()))
}
