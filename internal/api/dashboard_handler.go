package api

import (
	"net/http"
	"time"

	"github.com/shaiso/Publica/internal/domain"
)

// DashboardStats возвращает агрегаты по постам пользователя.
// GET /api/v1/dashboard/stats
//
// Агрегаты кэшируются в Redis с коротким TTL; промах или
// недоступный кэш — запрос уходит в БД.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	var stats StatsResponse
	hit, err := h.statsCache.Get(r.Context(), userID, &stats)
	if err != nil {
		h.logger.Warn("stats cache read failed", "error", err)
	}
	if hit {
		Success(w, stats)
		return
	}

	byStatus, err := h.postRepo.CountByStatus(r.Context(), userID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	byPlatform, err := h.postRepo.CountByPlatform(r.Context(), userID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	stats = StatsResponse{
		ScheduledPosts:  byStatus[domain.StatusScheduled],
		PublishedPosts:  byStatus[domain.StatusPublished],
		DraftPosts:      byStatus[domain.StatusDraft],
		FailedPosts:     byStatus[domain.StatusFailed],
		PostsByPlatform: byPlatform,
	}
	for _, count := range byStatus {
		stats.TotalPosts += count
	}

	if err := h.statsCache.Set(r.Context(), userID, stats); err != nil {
		h.logger.Warn("stats cache write failed", "error", err)
	}

	Success(w, stats)
}

// DashboardUpcoming возвращает ближайшие запланированные посты.
// GET /api/v1/dashboard/upcoming
func (h *Handler) DashboardUpcoming(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postRepo.ListUpcoming(r.Context(), UserID(r.Context()), time.Now(), 5)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]PostResponse, len(posts))
	for i := range posts {
		result[i] = PostFromDomain(&posts[i])
	}

	List(w, result, len(result))
}
