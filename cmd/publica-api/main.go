package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/shaiso/Publica/internal/api"
	"github.com/shaiso/Publica/internal/auth"
	"github.com/shaiso/Publica/internal/cache"
	"github.com/shaiso/Publica/internal/repo"
	"github.com/shaiso/Publica/internal/telemetry"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "publica_api_http_requests_total",
		Help: "Total HTTP requests handled by publica_api",
	})
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting publica-api")

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// JWT секрет обязателен: без него API не стартует
	secret := os.Getenv("JWT_SECRET")
	tokens, err := auth.NewTokenProvider([]byte(secret), tokenTTL())
	if err != nil {
		logger.Error("failed to init token provider", "error", err)
		os.Exit(1)
	}

	// Создаём репозитории
	postRepo := repo.NewPostRepo(pool)
	pubRepo := repo.NewPublicationRepo(pool)
	userRepo := repo.NewUserRepo(pool)

	// Redis для кэша дашборда — опционально
	var statsCache *cache.StatsCache
	if url := os.Getenv("REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		statsCache = cache.NewStatsCache(redis.NewClient(opts), cache.DefaultTTL)
		logger.Info("dashboard cache enabled")
	}

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		PostRepo:   postRepo,
		PubRepo:    pubRepo,
		UserRepo:   userRepo,
		Tokens:     tokens,
		StatsCache: statsCache,
		Logger:     logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// tokenTTL читает срок жизни токена из TOKEN_TTL_HOURS (default 24h).
func tokenTTL() time.Duration {
	v := os.Getenv("TOKEN_TTL_HOURS")
	if v == "" {
		return 0
	}
	var hours int
	if _, err := fmt.Sscanf(v, "%d", &hours); err != nil || hours <= 0 {
		return 0
	}
	return time.Duration(hours) * time.Hour
}
