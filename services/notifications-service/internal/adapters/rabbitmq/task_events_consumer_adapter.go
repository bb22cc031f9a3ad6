package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_common"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/contracts"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
	usecases_port "github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port/usecases_port"
)

// TaskEventsConsumerAdapter listens on the task-events queue and hands each
// decoded event to the processing use case. Returning an error from the
// handler makes the queue consumer reject the delivery without requeue.
type TaskEventsConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.ProcessEventUseCasePort
	logger   port.LoggerPort
}

func NewTaskEventsConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.ProcessEventUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*TaskEventsConsumerAdapter, error) {

	adapter := &TaskEventsConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewQueueConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for task events: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func (a *TaskEventsConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, _ := d.Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"routing_key":  d.RoutingKey,
		"adapter_name": "TaskEventsConsumerAdapter",
	})

	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	msgLogger.Info("Received task event message.", nil)

	kind, err := peekKind(d.Body)
	if err != nil {
		msgLogger.Error("Message has no readable event discriminant. Rejecting.", err, nil)
		return err
	}

	if err := contracts.ValidateEvent(kind, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, port.Fields{"event_kind": string(kind)})
		return err
	}

	event, err := events.Decode(d.Body)
	if err != nil {
		msgLogger.Error("Failed to decode event message. Rejecting.", err, port.Fields{"event_kind": string(kind)})
		return err
	}

	if err := a.useCase.Execute(ctx, event); err != nil {
		msgLogger.Error("Event processing failed. Rejecting message.", err, port.Fields{"event_kind": string(kind)})
		return err
	}

	msgLogger.Info("Task event processed successfully.", port.Fields{"event_kind": string(kind)})
	return nil
}

// peekKind reads only the discriminant so the raw body can be validated
// against the right schema before full decoding.
func peekKind(body []byte) (events.Kind, error) {
	var env struct {
		Type events.Kind `json:"type"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("failed to read event discriminant: %w", err)
	}
	return env.Type, nil
}

// Start begins consuming until the context is cancelled.
func (a *TaskEventsConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *TaskEventsConsumerAdapter) Close() error {
	return a.consumer.Close()
}
