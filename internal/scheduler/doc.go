// Package scheduler реализует фоновую публикацию постов.
//
// Scheduler периодически выбирает due-посты (status=scheduled,
// scheduled_at <= now, created_at ASC, батч ограничен) и проводит
// каждый через журнал публикаций и машину состояний. Журнал с
// уникальностью по post_id — единственная точка сериализации:
// при гонке конкурентных scheduler'ов по одному посту вставку
// выигрывает ровно один, проигравший выполняет идемпотентный
// ремонт статуса.
//
// Структура:
//   - scheduler.go — логика тика (Tick, processPost, repair)
//   - loop.go      — каденс запуска (cron-выражение или интервал)
//   - metrics.go   — prometheus-метрики
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Posts:  postRepo,
//	    Ledger: publicationRepo,
//	    Logger: logger,
//	})
//
//	loop, _ := scheduler.NewLoop(scheduler.LoopConfig{
//	    Scheduler: sched,
//	    CronExpr:  "* * * * *",
//	    Logger:    logger,
//	})
//	loop.Run(ctx) // блокируется до отмены контекста
//
// Несколько процессов scheduler'а допустимы: взаимное исключение
// между процессами обеспечивает атомарная вставка в журнал, а не
// leader election.
package scheduler
