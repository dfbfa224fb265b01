package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Publica/internal/domain"
	"github.com/shaiso/Publica/internal/repo"
)

// ListPosts возвращает посты пользователя.
// GET /api/v1/posts?status=...&limit=...&offset=...
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter := repo.PostFilter{
		UserID: UserID(r.Context()),
		Limit:  10,
	}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := domain.PostStatus(statusStr)
		if !status.IsValid() {
			BadRequest(w, "invalid status")
			return
		}
		filter.Status = status
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		filter.Limit = int(mustParseInt(limitStr, 10))
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		filter.Offset = int(mustParseInt(offsetStr, 0))
	}

	posts, err := h.postRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	total, err := h.postRepo.Count(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]PostResponse, len(posts))
	for i := range posts {
		result[i] = PostFromDomain(&posts[i])
	}

	List(w, result, total)
}

// CreatePost создаёт пост.
// POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	status := req.Status
	if status == "" {
		status = domain.StatusScheduled
	}
	// Пользователь создаёт пост только как draft или scheduled
	if status != domain.StatusDraft && status != domain.StatusScheduled {
		BadRequest(w, "status must be draft or scheduled")
		return
	}

	now := time.Now()
	post := &domain.Post{
		ID:          uuid.New(),
		UserID:      UserID(r.Context()),
		Content:     req.Content,
		Platforms:   req.Platforms,
		ImageURL:    req.ImageURL,
		ScheduledAt: req.ScheduledAt,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := post.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}
	if err := domain.ValidateSchedule(post.Status, post.ScheduledAt, now); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if err := h.postRepo.Create(r.Context(), post); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.logger.Info("post created",
		"post_id", post.ID,
		"user_id", post.UserID,
		"status", post.Status,
		"scheduled_at", post.ScheduledAt,
	)

	Created(w, PostFromDomain(post))
}

// GetPost возвращает пост по ID.
// GET /api/v1/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid post id")
		return
	}

	post, err := h.postRepo.GetForUser(r.Context(), id, UserID(r.Context()))
	if HandleRepoError(w, h.logger, err, "post not found") {
		return
	}

	resp := PostFromDomain(post)

	// Для опубликованного поста добавляем время из журнала
	if post.Status == domain.StatusPublished {
		if rec, err := h.pubRepo.GetByPostID(r.Context(), post.ID); err == nil {
			resp.PublishedAt = &rec.PublishedAt
		}
	}

	Success(w, resp)
}

// UpdatePost обновляет пост.
// PUT /api/v1/posts/{id}
//
// Опубликованные посты неизменяемы. Смена статуса проходит через
// машину состояний с актором user: published и failed руками не
// устанавливаются, failed-пост можно вернуть в scheduled или draft.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid post id")
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	post, err := h.postRepo.GetForUser(r.Context(), id, UserID(r.Context()))
	if HandleRepoError(w, h.logger, err, "post not found") {
		return
	}

	if post.Status.IsTerminal() {
		InvalidState(w, "published posts cannot be modified")
		return
	}

	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Platforms != nil {
		post.Platforms = *req.Platforms
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.ScheduledAt != nil {
		post.ScheduledAt = *req.ScheduledAt
	}

	if req.Status != nil && *req.Status != post.Status {
		next, err := domain.ApplyTransition(post.Status, *req.Status, domain.ActorUser)
		if HandleTransitionError(w, err) {
			return
		}
		post.Status = next
	}

	now := time.Now()
	if err := post.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}
	// Инвариант будущего времени: действует на пользовательские
	// записи в scheduled (новый статус или перенос времени)
	if req.Status != nil || req.ScheduledAt != nil {
		if err := domain.ValidateSchedule(post.Status, post.ScheduledAt, now); err != nil {
			BadRequest(w, err.Error())
			return
		}
	}

	post.UpdatedAt = now
	if err := h.postRepo.Update(r.Context(), post); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			NotFound(w, "post not found")
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Success(w, PostFromDomain(post))
}

// DeletePost удаляет пост.
// DELETE /api/v1/posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid post id")
		return
	}

	if err := h.postRepo.Delete(r.Context(), id, UserID(r.Context())); err != nil {
		if HandleRepoError(w, h.logger, err, "post not found") {
			return
		}
	}

	NoContent(w)
}

// mustParseInt парсит строку в int64 с дефолтным значением.
func mustParseInt(s string, def int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}
