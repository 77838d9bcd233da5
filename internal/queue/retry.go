package queue

import (
	"github.com/OFFIS-RIT/ifcfilter/internal/util"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
	"github.com/OFFIS-RIT/ifcfilter/pkg/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MaxRetries is how often a message is retried before it is dead-lettered.
const MaxRetries = 10

type channelPublisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RetryCount reads the x-retries header. The broker may hand back any
// integer width.
func RetryCount(headers amqp.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case int16:
		return int(v)
	case int8:
		return int(v)
	}
	return 0
}

// HandleProcessingError decides what happens to a delivery whose processing
// failed. Permanent errors are acknowledged, since the job row already holds
// the failure. Other errors go to the retry queue until MaxRetries is
// reached, then to the dead letter queue and onDeadLetter is called.
// It returns the metrics outcome.
func HandleProcessingError(ch channelPublisher, msg amqp.Delivery, queueName string, procErr error, onDeadLetter func()) string {
	if util.IsPermanent(procErr) {
		logger.Warn("[Queue] Dropping message after permanent failure", "queue", queueName, "err", procErr)
		if err := msg.Ack(false); err != nil {
			logger.Error("[Queue] Failed to ack message", "err", err)
		}
		return metrics.OutcomeFailed
	}

	retries := RetryCount(msg.Headers)

	if retries >= MaxRetries {
		dlqName := DeadLetterQueue(queueName)
		logger.Info("[Queue] Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: msg.ContentType,
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("[Queue] Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			_ = msg.Nack(false, true)
			return metrics.OutcomeRetried
		}
		if onDeadLetter != nil {
			onDeadLetter()
		}
		_ = msg.Ack(false)
		return metrics.OutcomeFailed
	}

	retryName := RetryQueue(queueName)
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("[Queue] Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		_ = msg.Nack(false, true)
		return metrics.OutcomeRetried
	}
	_ = msg.Ack(false)
	return metrics.OutcomeRetried
}
