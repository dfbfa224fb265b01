package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (пятипольный формат).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Loop — цикл запуска scheduler'а с собственным жизненным циклом.
//
// Каденс задаётся cron-выражением (default: "* * * * *", раз в
// минуту) либо фиксированным интервалом. Тик выполняется до конца
// прежде, чем станет возможен следующий: цикл однопоточный,
// пересечения запусков внутри процесса исключены.
type Loop struct {
	sched    *Scheduler
	cronExpr cron.Schedule
	interval time.Duration
	logger   *slog.Logger
}

// LoopConfig — конфигурация Loop.
type LoopConfig struct {
	Scheduler *Scheduler
	CronExpr  string        // default: "* * * * *"
	Interval  time.Duration // имеет приоритет, если > 0
	Logger    *slog.Logger
}

// NewLoop создаёт Loop. Ошибка — невалидное cron-выражение.
func NewLoop(cfg LoopConfig) (*Loop, error) {
	l := &Loop{
		sched:    cfg.Scheduler,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}

	if l.interval <= 0 {
		expr := cfg.CronExpr
		if expr == "" {
			expr = "* * * * *"
		}
		schedule, err := cronParser.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
		}
		l.cronExpr = schedule
	}

	return l, nil
}

// Run крутит цикл до отмены контекста.
//
// Первый тик выполняется сразу: после рестарта процесса уже
// созревшие посты не должны ждать целый каденс.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("scheduler loop started")

	l.tick(ctx)

	for {
		timer := time.NewTimer(l.untilNext())

		select {
		case <-ctx.Done():
			timer.Stop()
			l.logger.Info("scheduler loop stopped")
			return
		case <-timer.C:
			l.tick(ctx)
		}
	}
}

// tick выполняет один тик, не давая ошибке уровня запуска уронить цикл.
func (l *Loop) tick(ctx context.Context) {
	if err := l.sched.Tick(ctx); err != nil {
		l.logger.Error("scheduler tick failed", "error", err)
	}
}

// untilNext возвращает время до следующего тика.
func (l *Loop) untilNext() time.Duration {
	if l.interval > 0 {
		return l.interval
	}

	now := time.Now()
	next := l.cronExpr.Next(now)
	return next.Sub(now)
}
