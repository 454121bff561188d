package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/api/metrics"
	"github.com/onboardly/onboarding-system/internal/core/domain"
)

const notifyChannel = "notifications"

// envelope is the wire form of a pushed notification. Every instance
// publishes to one shared channel; each instance forwards to the sockets it
// holds locally, so a user connected anywhere receives the push.
type envelope struct {
	UserID       string               `json:"user_id"`
	Notification *domain.Notification `json:"notification"`
}

// Notifier is the real-time push fabric: a publisher on the write side and a
// subscriber bridge feeding the local websocket hub on the read side.
type Notifier struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewNotifier(rdb *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{rdb: rdb, log: log}
}

// Push publishes the notification for userID. Delivery is at-most-once per
// connected socket; the persisted record is the durable copy.
func (n *Notifier) Push(ctx context.Context, userID string, notification *domain.Notification) error {
	data, err := json.Marshal(envelope{UserID: userID, Notification: notification})
	if err != nil {
		return fmt.Errorf("marshal push envelope: %w", err)
	}
	if err := n.rdb.Publish(ctx, notifyChannel, data).Err(); err != nil {
		metrics.NotificationsPushedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("publish push envelope: %w", err)
	}
	metrics.NotificationsPushedTotal.WithLabelValues("ok").Inc()
	return nil
}

// Deliver hands a decoded push to the local connection layer.
type Deliver func(userID string, notification *domain.Notification)

// Subscribe consumes the shared channel and forwards each push to deliver.
// It blocks until ctx is cancelled; run it in its own goroutine.
func (n *Notifier) Subscribe(ctx context.Context, deliver Deliver) {
	sub := n.rdb.Subscribe(ctx, notifyChannel)
	defer func() { _ = sub.Close() }()

	msgCh := sub.Channel()
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				n.log.Warn().Err(err).Msg("malformed push envelope")
				continue
			}
			deliver(env.UserID, env.Notification)
		case <-ctx.Done():
			return
		}
	}
}
