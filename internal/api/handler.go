package api

import (
	"log/slog"

	"github.com/shaiso/Publica/internal/auth"
	"github.com/shaiso/Publica/internal/cache"
	"github.com/shaiso/Publica/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	postRepo   *repo.PostRepo
	pubRepo    *repo.PublicationRepo
	userRepo   *repo.UserRepo
	tokens     *auth.TokenProvider
	statsCache *cache.StatsCache
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	PostRepo   *repo.PostRepo
	PubRepo    *repo.PublicationRepo
	UserRepo   *repo.UserRepo
	Tokens     *auth.TokenProvider
	StatsCache *cache.StatsCache // опционально
	Logger     *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	statsCache := cfg.StatsCache
	if statsCache == nil {
		statsCache = cache.NewStatsCache(nil, 0)
	}

	return &Handler{
		postRepo:   cfg.PostRepo,
		pubRepo:    cfg.PubRepo,
		userRepo:   cfg.UserRepo,
		tokens:     cfg.Tokens,
		statsCache: statsCache,
		logger:     cfg.Logger,
	}
}
