package domain

import (
	"time"

	"github.com/google/uuid"
)

// User — пользователь сервиса.
type User struct {
	// ID — уникальный идентификатор пользователя.
	ID uuid.UUID `json:"id"`

	// Email — уникален, используется для входа.
	Email string `json:"email"`

	// PasswordHash — bcrypt-хеш пароля. Никогда не сериализуется.
	PasswordHash string `json:"-"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`
}
