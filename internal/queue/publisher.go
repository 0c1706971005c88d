package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers notification events to the broker. Services hold this
// interface so tests can capture published events in memory.
type Publisher interface {
	Publish(ctx context.Context, event NotificationEvent) error
}

// AMQPPublisher publishes to RabbitMQ over a fresh connection per call. The
// platform publishes at human scale (a handful of events per request at most),
// so connection reuse is not worth the reconnect bookkeeping.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher returns a publisher targeting the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// Publish sends a NotificationEvent to the notification queue. The function
// attempts to be robust and to never panic; any error is logged and returned
// so the caller can choose to ignore it rather than fail the main request.
// Messages are marked persistent so they survive broker restarts.
func (p *AMQPPublisher) Publish(ctx context.Context, event NotificationEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	if event.SentAt == "" {
		event.SentAt = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                    // default exchange
		NotificationQueueName, // routing key = queue name
		false,                 // mandatory
		false,                 // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}

// NopPublisher swallows events. Used when no broker is configured so the
// application keeps working with notifications disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, NotificationEvent) error { return nil }
