package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. The consumer owns the ack decision:
// nil acks the message, a non-nil error nacks it WITHOUT requeue. Dropping a
// poisoned message beats redelivering it forever; losses surface in the logs.
type MessageHandler func(delivery amqp.Delivery) error

// Consumer is the contract exposed to service-level adapters.
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}

// ConsumerConfig configures a single queue consumer.
type ConsumerConfig struct {
	rabbitmq_common.Config
	// Queue settings
	QueueName       string // empty means server-generated
	DeclareQueue    bool
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table
	// Exchange to bind against (optional)
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	ExchangeArgsForBind    amqp.Table
	// Binding
	RoutingKeyForBind string
	BindingArgs       amqp.Table
	// QoS
	PrefetchCount int
	PrefetchSize  int
	QosGlobal     bool
	// Consumer identity
	ConsumerTag       string
	ExclusiveConsumer bool

	Logger rabbitmq_common.Logger
}

// QueueConsumer consumes one queue, dispatching each delivery to its handler
// in a dedicated goroutine.
type QueueConsumer struct {
	config          ConsumerConfig
	connection      *amqp.Connection
	channel         *amqp.Channel
	actualQueueName string // server-generated name when QueueName was empty
	handler         MessageHandler
	wg              sync.WaitGroup

	Logger rabbitmq_common.Logger
}

// NewQueueConsumer opens a channel, declares/binds the configured topology
// and returns a consumer ready to start.
func NewQueueConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*QueueConsumer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid base config: %w", err)
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return nil, fmt.Errorf("consumer: queue name is required if DeclareQueue is false")
	}
	if cfg.ExchangeNameForBind != "" && cfg.ExchangeTypeForBind == "" && cfg.DeclareExchangeForBind {
		return nil, fmt.Errorf("consumer: exchange type is required if declaring an exchange for binding")
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}

	c := &QueueConsumer{
		config:  cfg,
		handler: handler,
		Logger:  logger,
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}
	c.connection = conn
	c.channel = ch
	c.Logger.Debug("Channel obtained from ConnectionManager")

	if err := c.setup(); err != nil {
		return nil, fmt.Errorf("consumer: initial setup failed: %w", err)
	}

	return c, nil
}

// setup applies QoS and declares/binds the queue and exchange.
func (c *QueueConsumer) setup() error {
	if c.config.PrefetchCount > 0 || c.config.PrefetchSize > 0 {
		c.Logger.Debug("Setting QoS",
			"prefetch_count", c.config.PrefetchCount,
			"prefetch_size", c.config.PrefetchSize,
			"global", c.config.QosGlobal,
		)
		if err := c.channel.Qos(c.config.PrefetchCount, c.config.PrefetchSize, c.config.QosGlobal); err != nil {
			_ = c.channel.Close()
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	c.actualQueueName = c.config.QueueName
	if c.config.DeclareQueue {
		c.Logger.Debug("Declaring queue",
			"name", c.config.QueueName,
			"durable", c.config.DurableQueue,
			"exclusive", c.config.ExclusiveQueue,
			"autoDelete", c.config.AutoDeleteQueue,
		)
		q, err := c.channel.QueueDeclare(
			c.config.QueueName,
			c.config.DurableQueue,
			c.config.AutoDeleteQueue,
			c.config.ExclusiveQueue,
			false, // no-wait
			c.config.QueueArgs,
		)
		if err != nil {
			_ = c.channel.Close()
			return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
		}
		c.actualQueueName = q.Name
	}

	if c.config.DeclareExchangeForBind {
		c.Logger.Debug("Declaring exchange",
			"name", c.config.ExchangeNameForBind,
			"type", c.config.ExchangeTypeForBind,
			"durable", c.config.DurableExchangeForBind,
		)
		err := c.channel.ExchangeDeclare(
			c.config.ExchangeNameForBind,
			c.config.ExchangeTypeForBind,
			c.config.DurableExchangeForBind,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			c.config.ExchangeArgsForBind,
		)
		if err != nil {
			_ = c.channel.Close()
			return fmt.Errorf("failed to declare exchange '%s' for binding: %w", c.config.ExchangeNameForBind, err)
		}
	}

	if c.config.ExchangeNameForBind != "" {
		c.Logger.Debug("Binding queue to exchange",
			"queue_name", c.actualQueueName,
			"exchange_name", c.config.ExchangeNameForBind,
			"routing_key", c.config.RoutingKeyForBind,
		)
		err := c.channel.QueueBind(
			c.actualQueueName,
			c.config.RoutingKeyForBind,
			c.config.ExchangeNameForBind,
			false, // noWait
			c.config.BindingArgs,
		)
		if err != nil {
			_ = c.channel.Close()
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.actualQueueName, c.config.ExchangeNameForBind, err)
		}
	}

	c.Logger.Debug("Setup complete", "queue", c.actualQueueName)
	return nil
}

// StartConsuming blocks reading deliveries until the context is cancelled or
// the broker closes the delivery channel.
func (c *QueueConsumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected. Please create a new consumer or ensure connection is stable")
	}

	msgs, err := c.channel.Consume(
		c.actualQueueName,
		c.config.ConsumerTag,
		false, // auto-ack
		c.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("consumer %s: failed to register a consumer on queue '%s': %w", c.config.ConsumerTag, c.actualQueueName, err)
	}

	c.Logger.Info("[*] Waiting for messages on queue", "queue_name", c.actualQueueName)

	for {
		// Priority check so a new handler is never started after cancellation.
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled for consumer. Exiting consumption loop.",
				"consumer_tag", c.config.ConsumerTag)
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled for consumer. Exiting consumption loop.",
				"consumer_tag", c.config.ConsumerTag)
			return nil

		case d, ok := <-msgs:
			if !ok {
				c.Logger.Info("Deliveries channel closed by RabbitMQ for consumer. Exiting loop.",
					"consumer_tag", c.config.ConsumerTag)
				return nil
			}

			c.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer c.wg.Done()

				c.Logger.Debug("[->] Started processing message",
					"consumer_tag", c.config.ConsumerTag,
					"delivery_tag", delivery.DeliveryTag)

				if processErr := c.handler(delivery); processErr != nil {
					// Drop, do not requeue: a failing message would otherwise
					// loop forever on a queue with no dead-letter target.
					_ = delivery.Nack(false, false)
					c.Logger.Error(processErr, "[x] Message Nack'd without requeue",
						"consumer_tag", c.config.ConsumerTag,
						"delivery_tag", delivery.DeliveryTag)
					return
				}

				_ = delivery.Ack(false)
				c.Logger.Debug("[+] Message Ack'd",
					"consumer_tag", c.config.ConsumerTag,
					"delivery_tag", delivery.DeliveryTag)
			}(d)
		}
	}
}

// Close waits for in-flight handlers and closes the consumer channel.
func (c *QueueConsumer) Close() error {
	c.Logger.Debug("Waiting for message handlers to finish...")
	c.wg.Wait()
	c.Logger.Debug("All message handlers finished")

	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.Logger.Error(err, "Error closing channel")
			firstErr = err
		}
		c.channel = nil
	}

	c.Logger.Info("Consumer closed")
	return firstErr
}
