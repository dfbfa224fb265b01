package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangePosts Exchange = "publica.posts"
)

// Queues — имена очередей.
const (
	QueuePostsPublished Queue = "posts.published"
)

// Routing keys.
const (
	RoutingKeyPublished RoutingKey = "published"
)

func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		// 1. Создаём exchange
		err := ch.ExchangeDeclare(
			string(ExchangePosts), // name
			"direct",              // type
			true,                  // durable
			false,                 // auto-deleted
			false,                 // internal
			false,                 // no-wait
			nil,                   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangePosts, err)
		}

		// 2. Создаём очередь
		_, err = ch.QueueDeclare(
			string(QueuePostsPublished), // name
			true,                        // durable
			false,                       // delete when unused
			false,                       // exclusive
			false,                       // no-wait
			nil,                         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueuePostsPublished, err)
		}

		// 3. Привязываем очередь к exchange
		err = ch.QueueBind(
			string(QueuePostsPublished), // queue name
			string(RoutingKeyPublished), // routing key
			string(ExchangePosts),       // exchange
			false,                       // no-wait
			nil,                         // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", QueuePostsPublished, ExchangePosts, err)
		}

		return nil
	})
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Publica RabbitMQ Topology:

    publica.posts (direct)
    └── posts.published [routing: published]
            Consumer: платформенные адаптеры
  `
}
