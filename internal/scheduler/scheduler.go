package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Publica/internal/clock"
	"github.com/shaiso/Publica/internal/domain"
)

// PostStore — контракт хранилища постов для scheduler.
// Реализуется repo.PostRepo; в тестах подменяется in-memory фейком.
type PostStore interface {
	// ListDue возвращает scheduled-посты с scheduled_at <= now,
	// старые первыми (created_at ASC), не более limit.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Post, error)

	// SetStatusIf атомарно переводит пост из from в to.
	// false — пост не найден или статус уже не from.
	SetStatusIf(ctx context.Context, id uuid.UUID, from, to domain.PostStatus) (bool, error)
}

// Ledger — контракт журнала публикаций. Реализуется repo.PublicationRepo.
type Ledger interface {
	// TryRecord атомарно вставляет запись, false при уже существующей.
	TryRecord(ctx context.Context, postID uuid.UUID, publishedAt time.Time) (bool, error)

	// Exists — предварительная проверка; решает всегда TryRecord.
	Exists(ctx context.Context, postID uuid.UUID) (bool, error)
}

// EventPublisher — необязательный издатель событий о публикации.
type EventPublisher interface {
	PublishPostPublished(ctx context.Context, postID uuid.UUID, platforms []domain.Platform) error
}

// Scheduler — процесс публикации due-постов.
type Scheduler struct {
	posts     PostStore
	ledger    Ledger
	publisher EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
	batchSize int
}

// Config — конфигурация Scheduler.
type Config struct {
	Posts     PostStore
	Ledger    Ledger
	Publisher EventPublisher // опционально
	Clock     clock.Clock    // default: clock.System()
	Logger    *slog.Logger
	BatchSize int // количество постов за один тик (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.System()
	}

	return &Scheduler{
		posts:     cfg.Posts,
		ledger:    cfg.Ledger,
		publisher: cfg.Publisher,
		clock:     clk,
		logger:    cfg.Logger,
		batchSize: batchSize,
	}
}

// Tick выполняет один тик scheduler'а.
//
// 1. Находит due-посты (status=scheduled, scheduled_at <= now)
// 2. Каждый пост обрабатывается независимо: журнал → машина
//    состояний → статус
// 3. Ошибка одного поста не блокирует обработку остальных
//
// Ошибку возвращает только сама выборка due-постов; тик без
// due-постов — нормальный тихий no-op.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.clock.Now()
	started := time.Now()

	posts, err := s.posts.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due posts: %w", err)
	}

	if len(posts) == 0 {
		return nil
	}

	s.logger.Debug("found due posts", "count", len(posts))

	var published, repaired, failed int
	for i := range posts {
		post := &posts[i]

		switch outcome := s.processPost(ctx, post, now); outcome {
		case outcomePublished:
			published++
		case outcomeRepaired:
			repaired++
		case outcomeFailed:
			failed++
		}
	}

	tickDuration.Observe(time.Since(started).Seconds())
	postsPublished.Add(float64(published))
	postsRepaired.Add(float64(repaired))
	postsFailed.Add(float64(failed))

	s.logger.Info("scheduler tick completed",
		"due", len(posts),
		"published", published,
		"repaired", repaired,
		"failed", failed,
	)

	return nil
}

// outcome — результат обработки одного поста.
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomePublished
	outcomeRepaired
	outcomeFailed
)

// processPost публикует один пост. Никогда не возвращает ошибку
// наверх: любой сбой превращается в статус failed либо в
// залогированный пропуск до следующего тика.
func (s *Scheduler) processPost(ctx context.Context, post *domain.Post, now time.Time) outcome {
	logger := s.logger.With("post_id", post.ID)

	// 1. Fast-path: запись в журнале уже есть. Значит, предыдущий
	// запуск успел вставить запись, но упал до обновления статуса,
	// либо нас опередил конкурентный scheduler. Чиним статус,
	// вторую запись не создаём.
	exists, err := s.ledger.Exists(ctx, post.ID)
	if err != nil {
		// Пост может быть уже опубликован — переводить его в failed
		// по ошибке чтения нельзя. Оставляем до следующего тика.
		logger.Error("ledger check failed, skipping", "error", err)
		return outcomeSkipped
	}
	if exists {
		return s.repair(ctx, post, logger)
	}

	// 2. Легальность перехода подтверждает машина состояний.
	next, err := domain.ApplyTransition(post.Status, domain.StatusPublished, domain.ActorScheduler)
	if err != nil {
		// Статус изменился между выборкой и обработкой
		logger.Warn("transition rejected, skipping",
			"status", post.Status,
			"reason", err,
		)
		return outcomeSkipped
	}

	// 3. Атомарная вставка в журнал — точка сериализации.
	// Проигравший гонку наблюдает false и выполняет repair.
	inserted, err := s.ledger.TryRecord(ctx, post.ID, now)
	if err != nil {
		logger.Error("ledger insert failed", "error", err)
		s.markFailed(ctx, post, logger)
		return outcomeFailed
	}
	if !inserted {
		return s.repair(ctx, post, logger)
	}

	// 4. Фиксируем статус. При сбое запись в журнале уже есть —
	// следующий тик восстановит статус без повторной публикации.
	updated, err := s.posts.SetStatusIf(ctx, post.ID, post.Status, next)
	if err != nil {
		logger.Error("status update failed after ledger insert, will repair on next tick",
			"error", err,
		)
		return outcomeSkipped
	}
	if !updated {
		logger.Warn("post status changed concurrently", "status", post.Status)
	}

	logger.Info("post published",
		"platforms", post.Platforms,
		"scheduled_at", post.ScheduledAt,
	)

	// 5. Событие для платформенных адаптеров (если publisher настроен).
	// Не фатально: журнал и статус уже зафиксированы в БД.
	if s.publisher != nil {
		if err := s.publisher.PublishPostPublished(ctx, post.ID, post.Platforms); err != nil {
			logger.Warn("failed to publish post.published event", "error", err)
		}
	}

	return outcomePublished
}

// repair — идемпотентный ремонт: запись в журнале есть, пост
// застрял в scheduled. Доводим статус до published.
func (s *Scheduler) repair(ctx context.Context, post *domain.Post, logger *slog.Logger) outcome {
	if post.Status != domain.StatusScheduled {
		return outcomeSkipped
	}

	updated, err := s.posts.SetStatusIf(ctx, post.ID, domain.StatusScheduled, domain.StatusPublished)
	if err != nil {
		logger.Error("status repair failed, will retry on next tick", "error", err)
		return outcomeSkipped
	}
	if updated {
		logger.Info("repaired post status to published")
		return outcomeRepaired
	}
	return outcomeSkipped
}

// markFailed переводит пост в failed. Если и это не удаётся,
// пост остаётся как есть до следующего тика.
func (s *Scheduler) markFailed(ctx context.Context, post *domain.Post, logger *slog.Logger) {
	next, err := domain.ApplyTransition(post.Status, domain.StatusFailed, domain.ActorScheduler)
	if err != nil {
		if !errors.Is(err, domain.ErrSameStatus) {
			logger.Warn("cannot mark post failed", "status", post.Status, "reason", err)
		}
		return
	}

	if _, err := s.posts.SetStatusIf(ctx, post.ID, post.Status, next); err != nil {
		logger.Error("failed to persist failed status, leaving post for next tick",
			"error", err,
		)
	}
}
