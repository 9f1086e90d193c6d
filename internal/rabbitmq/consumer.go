package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"poalerts/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewConsumer(cfg config.RabbitMQConfig) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Set prefetch count
	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
	}, nil
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// ConsumeQueue delivers each message body to handler until ctx is done or the
// channel closes. Failed messages are rejected without requeue so a broken
// trigger cannot loop.
func (c *Consumer) ConsumeQueue(ctx context.Context, queueName string, handler func(context.Context, []byte) error) error {
	// Declare queue (idempotent)
	_, err := c.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("✓ Started consuming from queue: %s", queueName)

	return consume(ctx, msgs, handler)
}

// acknowledger is the subset of amqp.Delivery consume needs
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func consume(ctx context.Context, msgs <-chan amqp.Delivery, handler func(context.Context, []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			processMessage(ctx, msg.Body, &msg, handler)
		}
	}
}

func processMessage(ctx context.Context, body []byte, ack acknowledger, handler func(context.Context, []byte) error) {
	if err := handler(ctx, body); err != nil {
		log.Printf("✗ Error processing message: %v", err)
		ack.Nack(false, false)
		return
	}
	ack.Ack(false)
}

// ParseJSON decodes a message body into v
func ParseJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
