package postgres

// Migration: одна версия схемы.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// SQL-миграции встроены в код для упрощения деплоя.
// Таблицы только дополняются: UPDATE/DELETE по ним бот не делает.
var Migrations = []Migration{
	{1, "transactions", migration001Transactions},
	{2, "feedback", migration002Feedback},
}

const migration001Transactions = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    type VARCHAR(16) NOT NULL,
    amount NUMERIC NOT NULL CHECK (amount > 0),
    category TEXT NOT NULL,
    date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_type ON transactions(user_id, type);
`

const migration002Feedback = `
CREATE TABLE IF NOT EXISTS feedback (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    message TEXT NOT NULL,
    date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_feedback_date ON feedback(date DESC);
`
