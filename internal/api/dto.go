package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Publica/internal/domain"
)

// Auth DTOs

// RegisterRequest — запрос на регистрацию.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest — запрос на вход.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse — ответ с токеном и пользователем.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// UserResponse — ответ с пользователем.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain конвертирует domain.User в UserResponse.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Post DTOs

// CreatePostRequest — запрос на создание поста.
type CreatePostRequest struct {
	Content     string            `json:"content"`
	Platforms   []domain.Platform `json:"platforms"`
	ImageURL    string            `json:"image_url,omitempty"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      domain.PostStatus `json:"status,omitempty"` // draft | scheduled
}

// UpdatePostRequest — запрос на обновление поста.
type UpdatePostRequest struct {
	Content     *string            `json:"content,omitempty"`
	Platforms   *[]domain.Platform `json:"platforms,omitempty"`
	ImageURL    *string            `json:"image_url,omitempty"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
	Status      *domain.PostStatus `json:"status,omitempty"`
}

// PostResponse — ответ с постом.
type PostResponse struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Content     string            `json:"content"`
	Platforms   []domain.Platform `json:"platforms"`
	ImageURL    string            `json:"image_url,omitempty"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      string            `json:"status"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// PostFromDomain конвертирует domain.Post в PostResponse.
func PostFromDomain(p *domain.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Content:     p.Content,
		Platforms:   p.Platforms,
		ImageURL:    p.ImageURL,
		ScheduledAt: p.ScheduledAt,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Dashboard DTOs

// StatsResponse — агрегаты по постам пользователя.
type StatsResponse struct {
	TotalPosts      int                     `json:"total_posts"`
	ScheduledPosts  int                     `json:"scheduled_posts"`
	PublishedPosts  int                     `json:"published_posts"`
	DraftPosts      int                     `json:"draft_posts"`
	FailedPosts     int                     `json:"failed_posts"`
	PostsByPlatform map[domain.Platform]int `json:"posts_by_platform"`
}
