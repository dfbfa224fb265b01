package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Publica/internal/domain"
)

// PublicationRepo — журнал публикаций, гарант exactly-once.
//
// Таблица publications имеет уникальный индекс по post_id.
// Атомарность TryRecord обеспечивает сама БД, а не проверка в коде:
// при конкурентных вставках по одному посту выигрывает ровно одна.
type PublicationRepo struct {
	pool *pgxpool.Pool
}

// NewPublicationRepo создаёт новый PublicationRepo.
func NewPublicationRepo(pool *pgxpool.Pool) *PublicationRepo {
	return &PublicationRepo{pool: pool}
}

// TryRecord атомарно вставляет запись о публикации поста.
// Возвращает true, если запись создана, и false, если запись для
// поста уже существовала (проигрыш гонки или повторный запуск).
func (r *PublicationRepo) TryRecord(ctx context.Context, postID uuid.UUID, publishedAt time.Time) (bool, error) {
	query := `
		INSERT INTO publications (id, post_id, published_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (post_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query, uuid.New(), postID, publishedAt)
	if err != nil {
		return false, fmt.Errorf("insert publication: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Exists проверяет наличие записи для поста.
//
// Только предварительная проверка для fast-path: решение о публикации
// принимает атомарная вставка TryRecord, а не Exists.
func (r *PublicationRepo) Exists(ctx context.Context, postID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM publications WHERE post_id = $1)`, postID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("publication exists: %w", err)
	}
	return exists, nil
}

// GetByPostID возвращает запись журнала для поста.
func (r *PublicationRepo) GetByPostID(ctx context.Context, postID uuid.UUID) (*domain.PublicationRecord, error) {
	query := `
		SELECT id, post_id, published_at, created_at
		FROM publications
		WHERE post_id = $1
	`
	var rec domain.PublicationRecord
	err := r.pool.QueryRow(ctx, query, postID).Scan(
		&rec.ID,
		&rec.PostID,
		&rec.PublishedAt,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan publication: %w", err)
	}
	return &rec, nil
}
