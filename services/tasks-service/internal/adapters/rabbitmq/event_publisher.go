package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_producer"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
)

// RabbitMQEventPublisher implements EventPublisherPort on the task events
// topic exchange. The routing key of every message is the event kind.
type RabbitMQEventPublisher struct {
	producer *rabbitmq_producer.Publisher
}

func NewRabbitMQEventPublisher(producer *rabbitmq_producer.Publisher) (*RabbitMQEventPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &RabbitMQEventPublisher{producer: producer}, nil
}

func (a *RabbitMQEventPublisher) Publish(ctx context.Context, event events.DomainEvent) port.PublishResult {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "RabbitMQEventPublisher",
		"event_kind":  string(event.Kind()),
		"routing_key": events.RoutingKey(event),
	})

	body, err := events.Encode(event)
	if err != nil {
		adapterLogger.Error("Failed to encode event", err, nil)
		return port.PublishResult{Delivered: false, Reason: fmt.Sprintf("encode: %v", err)}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Debug("Publishing domain event", nil)
	if err := a.producer.Publish(publishCtx, events.RoutingKey(event), msg); err != nil {
		adapterLogger.Error("Failed to publish domain event", err, nil)
		return port.PublishResult{Delivered: false, Reason: fmt.Sprintf("publish: %v", err)}
	}

	adapterLogger.Debug("Domain event published", nil)
	return port.PublishResult{Delivered: true}
}
