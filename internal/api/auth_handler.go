package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Publica/internal/auth"
	"github.com/shaiso/Publica/internal/domain"
	"github.com/shaiso/Publica/internal/repo"
)

// Register регистрирует нового пользователя.
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		BadRequest(w, "invalid email")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := h.userRepo.Create(r.Context(), user); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			Conflict(w, "email already registered")
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)

	Created(w, AuthResponse{User: UserFromDomain(user), Token: token})
}

// Login аутентифицирует пользователя и выдаёт токен.
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		Unauthorized(w, "invalid email or password")
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), email)
	if errors.Is(err, repo.ErrNotFound) {
		// Один и тот же ответ для неизвестного email и неверного
		// пароля: не раскрываем, что именно не совпало
		Unauthorized(w, "invalid email or password")
		return
	}
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		Unauthorized(w, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, AuthResponse{User: UserFromDomain(user), Token: token})
}

// Logout завершает сессию.
// POST /api/v1/auth/logout
//
// JWT stateless — выход выполняется на клиенте. Ручка существует
// для полноты API и возможного блэклиста токенов в будущем.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	NoContent(w)
}

// Me возвращает текущего пользователя.
// GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), UserID(r.Context()))
	if HandleRepoError(w, h.logger, err, "user not found") {
		return
	}

	Success(w, UserFromDomain(user))
}

// normalizeEmail валидирует и приводит email к нижнему регистру.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}
