// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: очистку забытых сумм
// и периодический отчёт о пуле соединений.
package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/finance-bot/internal/config"
	"serotonyl.ru/finance-bot/internal/features/conversation"
)

// poolStatsSchedule: как часто пишем состояние пула в лог.
const poolStatsSchedule = "@every 5m"

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron  *cron.Cron
	state *conversation.Store
	pool  *pgxpool.Pool // nil: отчёт о пуле не нужен

	pendingTTL    time.Duration
	sweepSchedule string

	mu                sync.Mutex
	lastEmptyAcquires int64
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(cfg *config.Config, state *conversation.Store, pool *pgxpool.Pool) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		state:         state,
		pool:          pool,
		pendingTTL:    cfg.PendingTTL,
		sweepSchedule: cfg.PendingSweepSchedule,
	}
}

// Start регистрирует задачи и запускает планировщик.
// Ошибка: только при неверном расписании.
func (s *Scheduler) Start() error {
	// Очистка забытых сумм: только если задан TTL
	if s.pendingTTL > 0 {
		_, err := s.cron.AddFunc(s.sweepSchedule, func() {
			s.SweepPending(time.Now())
		})
		if err != nil {
			return fmt.Errorf("неверное расписание PENDING_SWEEP_SCHEDULE %q: %w", s.sweepSchedule, err)
		}
	}

	if s.pool != nil {
		if _, err := s.cron.AddFunc(poolStatsSchedule, s.logPoolStats); err != nil {
			return fmt.Errorf("расписание отчёта о пуле: %w", err)
		}
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"pending_ttl": s.pendingTTL,
		"jobs":        len(s.cron.Entries()),
	}).Info("Планировщик задач запущен (Europe/Moscow)")
	return nil
}

// Stop останавливает планировщик и ждёт выполняющиеся задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// SweepPending удаляет суммы, ждущие категорию дольше TTL. Возвращает число удалённых.
func (s *Scheduler) SweepPending(now time.Time) int {
	if s.pendingTTL <= 0 {
		return 0
	}

	evicted := s.state.EvictPendingOlderThan(now.Add(-s.pendingTTL))
	st := s.state.Stats()

	entry := log.WithFields(log.Fields{
		"evicted":  evicted,
		"pending":  st.Pending,
		"feedback": st.Feedback,
		"users":    st.Users,
	})
	if evicted > 0 {
		entry.Info("[CRON] Удалены забытые суммы")
	} else {
		entry.Debug("[CRON] Забытых сумм нет")
	}
	return evicted
}

// logPoolStats пишет состояние пула. Если запросам приходилось ждать соединение, то warn.
func (s *Scheduler) logPoolStats() {
	stat := s.pool.Stat()

	s.mu.Lock()
	waited := stat.EmptyAcquireCount() - s.lastEmptyAcquires
	s.lastEmptyAcquires = stat.EmptyAcquireCount()
	s.mu.Unlock()

	entry := log.WithFields(log.Fields{
		"acquired":       stat.AcquiredConns(),
		"idle":           stat.IdleConns(),
		"total":          stat.TotalConns(),
		"max":            stat.MaxConns(),
		"empty_acquires": waited,
	})
	if waited > 0 {
		entry.Warn("[CRON] Пул БД: запросы ждали свободное соединение")
		return
	}
	entry.Debug("[CRON] Пул БД")
}
