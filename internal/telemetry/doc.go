// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает structured logging через slog (logging.go).
// Prometheus-метрики живут рядом с кодом, который их пишет
// (internal/scheduler/metrics.go), и экспортируются на /metrics.
//
// Все сервисы используют единый формат логирования.
package telemetry
