// Publica Scheduler — процесс публикации запланированных постов.
//
// Scheduler:
//   - Каждый тик выбирает due-посты (status=scheduled, scheduled_at <= now)
//   - Фиксирует публикацию в журнале publications (exactly-once)
//   - Переводит посты в published/failed
//   - Отправляет событие post.published в RabbitMQ (best-effort)
//
// Несколько экземпляров могут работать параллельно: уникальный
// индекс журнала исключает двойную публикацию.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Publica/internal/mq"
	"github.com/shaiso/Publica/internal/repo"
	"github.com/shaiso/Publica/internal/scheduler"
	"github.com/shaiso/Publica/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting publica-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Создаём репозитории
	postRepo := repo.NewPostRepo(pool)
	pubRepo := repo.NewPublicationRepo(pool)

	// RabbitMQ — опционально: без брокера scheduler публикует
	// посты, но не отправляет события
	var publisher *mq.Publisher
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, events disabled", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		// Создаём топологию
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Создаём scheduler
	cfg := scheduler.Config{
		Posts:     postRepo,
		Ledger:    pubRepo,
		Logger:    logger,
		BatchSize: envInt("SCHED_BATCH_SIZE"),
	}
	if publisher != nil {
		cfg.Publisher = publisher
	}
	sched := scheduler.New(cfg)

	loop, err := scheduler.NewLoop(scheduler.LoopConfig{
		Scheduler: sched,
		CronExpr:  os.Getenv("SCHED_CRON"),
		Interval:  time.Duration(envInt("SCHED_INTERVAL_SEC")) * time.Second,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to init scheduler loop", "error", err)
		os.Exit(1)
	}

	go loop.Run(ctx)

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// envInt читает целое из переменной окружения, 0 если не задана.
func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
