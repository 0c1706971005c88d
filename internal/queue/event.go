// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notification rows.
package queue

// NotificationQueueName is the durable queue notification events travel on.
const NotificationQueueName = "notification.created"

// NotificationEvent is published whenever something happens that a user should
// hear about: an application filed against their event, a status decision on
// their application, a moderation decision on their event, a review received.
// It carries everything the consumer needs to write the notification row
// without querying the primary database.
type NotificationEvent struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	SentAt  string `json:"sent_at"`
}
