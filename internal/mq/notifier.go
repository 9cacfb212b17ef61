// Package mq publishes game changes to a RabbitMQ topic exchange so other
// services (scoreboards, statistics) can follow games without polling.
package mq

import (
	"context"
	"time"

	"go.uber.org/zap"

	"scorekeeper/internal/broadcast"
	"scorekeeper/internal/bus"
)

const (
	KeyEventAppended = "game.event.appended"
	KeyEventRemoved  = "game.event.removed"
	KeyStateChanged  = "game.state.changed"
)

// JSONPublisher is satisfied by *Publisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Notifier turns appends and removals into messages. Clock ticks are
// dropped.
type Notifier struct {
	pub     JSONPublisher
	timeout time.Duration
	log     *zap.Logger
}

func NewNotifier(pub JSONPublisher) *Notifier {
	return &Notifier{
		pub:     pub,
		timeout: 5 * time.Second,
		log:     zap.L().Named("mq"),
	}
}

// Handle has the shape of a broadcast.Broadcaster listener.
func (n *Notifier) Handle(c bus.StateChange) {
	var key string
	switch c.Reason {
	case bus.Appended:
		key = KeyEventAppended
	case bus.Removed:
		key = KeyEventRemoved
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	payload := broadcast.NewPayload(c)
	for _, k := range []string{key, KeyStateChanged} {
		if err := n.pub.PublishJSON(ctx, k, payload); err != nil {
			n.log.Warn("publish failed",
				zap.String("key", k),
				zap.Int64("game", c.GameID),
				zap.Error(err))
		}
	}
}
