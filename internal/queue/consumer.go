package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// StartNotificationConsumer connects to RabbitMQ, declares the notification
// queue (durable), and starts consuming. Each message becomes a row in the
// notifications table, written through its own unit of work. The function
// runs a reconnect loop with backoff and keeps running across broker
// restarts; processing errors are logged and the offending message rejected
// without requeue so a poison message cannot wedge the queue.
func StartNotificationConsumer(url string, factory uow.Factory) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, factory); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, factory uow.Factory) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(NotificationQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(NotificationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, factory); err != nil {
			log.Printf("notification-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, factory uow.Factory) error {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.UserID == 0 {
		return errors.New("event has no recipient")
	}
	if ev.Type == "" {
		ev.Type = model.NotificationTypeSystem
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scope, err := factory.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin scope: %w", err)
	}
	defer func() { _ = scope.Close() }()

	n := model.Notification{
		UserID:  ev.UserID,
		Title:   ev.Title,
		Message: ev.Message,
		Type:    ev.Type,
	}
	if err := scope.Notifications().Create(ctx, &n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return scope.Commit()
}
