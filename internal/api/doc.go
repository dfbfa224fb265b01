// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go           — Handler с DI (репозитории, токены, кэш, logger)
//   - routes.go            — регистрация маршрутов
//   - middleware.go        — middleware (logging, recovery, rate limit, auth)
//   - response.go          — унифицированные JSON-ответы и обработка ошибок
//   - dto.go               — Data Transfer Objects (request/response)
//   - auth_handler.go      — обработчики для /auth
//   - post_handler.go      — обработчики для /posts
//   - dashboard_handler.go — обработчики для /dashboard
//
// Все ручки, кроме register/login, требуют Bearer-токен; данные
// всегда ограничены владельцем из токена.
package api
