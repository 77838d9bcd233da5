package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/ifcfilter/internal/util"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	FilterQueue = "filter_queue"

	// EventExchange carries job status events, routed as "filter.job.<status>".
	EventExchange = "pubsub_exchange"

	retryTTL = 10000
)

// Queues is every work queue this service declares and consumes.
var Queues = []string{FilterQueue}

// ConnectionURL builds the AMQP URL from the RABBITMQ_* variables.
func ConnectionURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		util.GetEnv("RABBITMQ_USER"),
		util.GetEnv("RABBITMQ_PASSWORD"),
		util.GetEnvString("RABBITMQ_HOST", "localhost"),
		util.GetEnvString("RABBITMQ_PORT", "5672"),
	)
}

func Init() *amqp091.Connection {
	conn, err := amqp091.Dial(ConnectionURL())
	if err != nil {
		logger.Fatal("[Queue] Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// SetupQueues declares each queue together with its dead letter queue and
// its retry queue. Messages in the retry queue expire back into the work
// queue after retryTTL milliseconds.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	err := ch.ExchangeDeclare(
		EventExchange,
		"topic",
		false,
		true,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("ExchangeDeclare failed: %w", err)
	}

	for _, name := range queueNames {
		_, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("QueueDeclare %s failed: %w", name, err)
		}

		dlqName := DeadLetterQueue(name)
		_, err = ch.QueueDeclare(
			dlqName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("QueueDeclare %s failed: %w", dlqName, err)
		}

		retryName := RetryQueue(name)
		_, err = ch.QueueDeclare(
			retryName,
			true,
			false,
			false,
			false,
			retryQueueArgs(name),
		)
		if err != nil {
			return fmt.Errorf("QueueDeclare %s failed: %w", retryName, err)
		}
	}

	return nil
}

func DeadLetterQueue(name string) string { return name + "_dlq" }
func RetryQueue(name string) string      { return name + "_retry" }

func retryQueueArgs(name string) amqp091.Table {
	return amqp091.Table{
		"x-message-ttl":             int32(retryTTL),
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": name,
	}
}

// Publisher is the part of *amqp091.Channel used for publishing.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// PublishFIFO sends data to a durable queue through the default exchange.
func PublishFIFO(ctx context.Context, ch Publisher, queueName string, data []byte) error {
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	return util.RetryErrWithContext(ctx, util.DefaultPolicy, func(ctx context.Context) error {
		return ch.PublishWithContext(ctx, "", queueName, false, false, publishing)
	})
}

// PublishTopic sends data to EventExchange. Nobody has to listen, so events
// are fire and forget.
func PublishTopic(ctx context.Context, ch Publisher, topic string, data []byte) error {
	publishing := amqp091.Publishing{
		ContentType: "application/json",
		Body:        data,
		Timestamp:   time.Now(),
	}

	return ch.PublishWithContext(ctx, EventExchange, topic, false, false, publishing)
}
