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

// PostRepo — репозиторий постов.
type PostRepo struct {
	pool *pgxpool.Pool
}

// NewPostRepo создаёт новый PostRepo.
func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

// Create создаёт новый пост.
func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, content, platforms, image_url,
		                   scheduled_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Content,
		platformStrings(post.Platforms),
		nullString(post.ImageURL),
		post.ScheduledAt,
		post.Status,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetByID возвращает пост по ID.
func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT id, user_id, content, platforms, image_url,
		       scheduled_at, status, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	return r.scanPost(r.pool.QueryRow(ctx, query, id))
}

// GetForUser возвращает пост по ID в рамках владельца.
func (r *PostRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT id, user_id, content, platforms, image_url,
		       scheduled_at, status, created_at, updated_at
		FROM posts
		WHERE id = $1 AND user_id = $2
	`
	return r.scanPost(r.pool.QueryRow(ctx, query, id, userID))
}

// List возвращает посты пользователя с фильтрацией и пагинацией.
func (r *PostRepo) List(ctx context.Context, filter PostFilter) ([]domain.Post, error) {
	query := `
		SELECT id, user_id, content, platforms, image_url,
		       scheduled_at, status, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY scheduled_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := r.scanPostFromRows(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// Count возвращает число постов пользователя под фильтром.
func (r *PostRepo) Count(ctx context.Context, filter PostFilter) (int, error) {
	query := `
		SELECT count(*) FROM posts
		WHERE user_id = $1
		  AND ($2::text IS NULL OR status = $2)
	`
	var total int
	err := r.pool.QueryRow(ctx, query,
		filter.UserID,
		nullString(string(filter.Status)),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

// ListDue возвращает посты, готовые к публикации: status = scheduled,
// scheduled_at <= now. Старые запросы первыми (created_at ASC).
func (r *PostRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Post, error) {
	query := `
		SELECT id, user_id, content, platforms, image_url,
		       scheduled_at, status, created_at, updated_at
		FROM posts
		WHERE status = 'scheduled'
		  AND scheduled_at <= $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := r.scanPostFromRows(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// Update обновляет изменяемые поля поста.
func (r *PostRepo) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET content = $2, platforms = $3, image_url = $4,
		    scheduled_at = $5, status = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Content,
		platformStrings(post.Platforms),
		nullString(post.ImageURL),
		post.ScheduledAt,
		post.Status,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatusIf атомарно переводит пост из статуса from в to.
// Возвращает false, если пост не найден или его статус уже не from —
// условное обновление «claim-or-skip» для scheduler.
func (r *PostRepo) SetStatusIf(ctx context.Context, id uuid.UUID, from, to domain.PostStatus) (bool, error) {
	query := `
		UPDATE posts
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	result, err := r.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("set status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Delete удаляет пост в рамках владельца.
func (r *PostRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus возвращает число постов пользователя по каждому статусу.
func (r *PostRepo) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.PostStatus]int, error) {
	query := `
		SELECT status, count(*)
		FROM posts
		WHERE user_id = $1
		GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.PostStatus]int)
	for rows.Next() {
		var status domain.PostStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CountByPlatform возвращает число постов пользователя по площадкам.
func (r *PostRepo) CountByPlatform(ctx context.Context, userID uuid.UUID) (map[domain.Platform]int, error) {
	query := `
		SELECT platform, count(*)
		FROM posts, unnest(platforms) AS platform
		WHERE user_id = $1
		GROUP BY platform
		ORDER BY count(*) DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count by platform: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Platform]int)
	for rows.Next() {
		var platform domain.Platform
		var count int
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, fmt.Errorf("scan platform count: %w", err)
		}
		counts[platform] = count
	}
	return counts, rows.Err()
}

// ListUpcoming возвращает ближайшие запланированные посты пользователя.
func (r *PostRepo) ListUpcoming(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.Post, error) {
	query := `
		SELECT id, user_id, content, platforms, image_url,
		       scheduled_at, status, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		  AND status = 'scheduled'
		  AND scheduled_at > $2
		ORDER BY scheduled_at ASC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := r.scanPostFromRows(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// --- Helpers ---

// PostFilter — параметры фильтрации постов пользователя.
type PostFilter struct {
	UserID uuid.UUID
	Status domain.PostStatus
	Limit  int
	Offset int
}

func (r *PostRepo) scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	var platforms []string
	var imageURL *string

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Content,
		&platforms,
		&imageURL,
		&p.ScheduledAt,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}

	p.Platforms = toPlatforms(platforms)
	if imageURL != nil {
		p.ImageURL = *imageURL
	}

	return &p, nil
}

func (r *PostRepo) scanPostFromRows(rows pgx.Rows) (*domain.Post, error) {
	var p domain.Post
	var platforms []string
	var imageURL *string

	err := rows.Scan(
		&p.ID,
		&p.UserID,
		&p.Content,
		&platforms,
		&imageURL,
		&p.ScheduledAt,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}

	p.Platforms = toPlatforms(platforms)
	if imageURL != nil {
		p.ImageURL = *imageURL
	}

	return &p, nil
}

// platformStrings конвертирует площадки в text[] для pgx.
func platformStrings(platforms []domain.Platform) []string {
	result := make([]string, len(platforms))
	for i, p := range platforms {
		result[i] = string(p)
	}
	return result
}

func toPlatforms(values []string) []domain.Platform {
	result := make([]domain.Platform, len(values))
	for i, v := range values {
		result[i] = domain.Platform(v)
	}
	return result
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
