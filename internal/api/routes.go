package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Лимиты запросов с одного IP (запросов в секунду / burst).
// Auth-ручки ограничены жёстче: защита от перебора паролей.
const (
	apiRPS    = rate.Limit(10)
	apiBurst  = 20
	authRPS   = rate.Limit(1)
	authBurst = 5
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	base := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	public := Chain(base, RateLimit(authRPS, authBurst))
	protected := Chain(base, RateLimit(apiRPS, apiBurst), Auth(h.tokens))

	// Auth
	mux.Handle("POST /api/v1/auth/register", public(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/v1/auth/login", public(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/v1/auth/logout", protected(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/v1/auth/me", protected(http.HandlerFunc(h.Me)))

	// Posts
	mux.Handle("GET /api/v1/posts", protected(http.HandlerFunc(h.ListPosts)))
	mux.Handle("POST /api/v1/posts", protected(http.HandlerFunc(h.CreatePost)))
	mux.Handle("GET /api/v1/posts/{id}", protected(http.HandlerFunc(h.GetPost)))
	mux.Handle("PUT /api/v1/posts/{id}", protected(http.HandlerFunc(h.UpdatePost)))
	mux.Handle("DELETE /api/v1/posts/{id}", protected(http.HandlerFunc(h.DeletePost)))

	// Dashboard
	mux.Handle("GET /api/v1/dashboard/stats", protected(http.HandlerFunc(h.DashboardStats)))
	mux.Handle("GET /api/v1/dashboard/upcoming", protected(http.HandlerFunc(h.DashboardUpcoming)))
}
