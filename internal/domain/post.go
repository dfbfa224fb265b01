package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxContentLength — максимальная длина контента поста в символах.
const MaxContentLength = 500

// ErrPastSchedule — время публикации в прошлом.
//
// Инвариант действует только для пользовательских операций: когда
// пользователь переводит пост в scheduled, ScheduledAt должен быть
// в будущем. Scheduler от проверки освобождён — он по определению
// работает с постами, чьё время уже прошло.
var ErrPastSchedule = errors.New("scheduled time must be in the future")

// Post — пост с контентом, целевыми площадками и временем публикации.
//
// Пост создаётся пользователем как draft или scheduled.
// Scheduler находит due-посты (scheduled, ScheduledAt <= now)
// и переводит их в published или failed.
type Post struct {
	// ID — уникальный идентификатор поста.
	ID uuid.UUID `json:"id"`

	// UserID — владелец поста. Все операции API ограничены владельцем.
	UserID uuid.UUID `json:"user_id"`

	// Content — текст поста, обязателен, не длиннее MaxContentLength.
	Content string `json:"content"`

	// Platforms — целевые площадки, непустое множество без дубликатов.
	Platforms []Platform `json:"platforms"`

	// ImageURL — опциональная ссылка на изображение.
	ImageURL string `json:"image_url,omitempty"`

	// ScheduledAt — время «не раньше которого» пост публикуется.
	ScheduledAt time.Time `json:"scheduled_at"`

	// Status — текущий статус жизненного цикла.
	Status PostStatus `json:"status"`

	// CreatedAt — время создания, сортировочный ключ для scheduler
	// (старые запросы публикуются первыми).
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate проверяет инварианты контента и площадок.
// Нормализует Platforms (валидация + дедупликация).
func (p *Post) Validate() error {
	if p.Content == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(p.Content) > MaxContentLength {
		return fmt.Errorf("content cannot exceed %d characters", MaxContentLength)
	}

	platforms, err := NormalizePlatforms(p.Platforms)
	if err != nil {
		return err
	}
	p.Platforms = platforms

	if !p.Status.IsValid() {
		return fmt.Errorf("invalid status %q", p.Status)
	}

	return nil
}

// ValidateSchedule проверяет инвариант будущего времени для
// пользовательских операций: пост в scheduled обязан иметь
// ScheduledAt в будущем на момент установки статуса.
func ValidateSchedule(status PostStatus, scheduledAt, now time.Time) error {
	if status == StatusScheduled && !scheduledAt.After(now) {
		return ErrPastSchedule
	}
	return nil
}

// IsDue проверяет, подошло ли время публикации.
func (p *Post) IsDue(now time.Time) bool {
	if p.Status != StatusScheduled {
		return false
	}
	return !p.ScheduledAt.After(now)
}
