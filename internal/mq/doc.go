// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchange, queue, binding
//   - publisher.go  — публикация сообщений
//
// Типы сообщений:
//   - post.published — пост опубликован scheduler'ом
//
// Exchanges:
//   - publica.posts — события постов
//
// Событие post.published — advisory: источником истины остаются
// журнал публикаций и статус поста в БД. Потерянное событие не
// ломает exactly-once гарантию.
package mq
