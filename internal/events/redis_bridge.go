package events

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// envelope is the wire form of an event on the shared channel.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// RedisBridge publishes local events to a Redis channel and replays events
// published by other instances into the local hub.
type RedisBridge struct {
	hub     *Hub
	client  *redis.Client
	channel string
	origin  string
	logger  *zap.Logger
}

func NewRedisBridge(hub *Hub, client *redis.Client, channel string, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		hub:     hub,
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

// Publish delivers ev locally, then forwards it to the other instances.
func (b *RedisBridge) Publish(ev Event) {
	b.hub.Publish(ev)

	payload, err := b.encode(ev)
	if err != nil {
		b.logger.Error("encode event", zap.String("collection", ev.Collection), zap.Error(err))
		return
	}

	if err := b.client.Publish(context.Background(), b.channel, payload).Err(); err != nil {
		b.logger.Warn("redis publish failed", zap.String("channel", b.channel), zap.Error(err))
	}
}

// Run relays remote events until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	b.logger.Info("listening for remote events", zap.String("channel", b.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.deliver(msg.Payload)
		}
	}
}

func (b *RedisBridge) encode(ev Event) ([]byte, error) {
	return json.Marshal(envelope{Origin: b.origin, Event: ev})
}

// deliver republishes a remote payload locally. Payloads sent by this
// instance were already delivered by Publish and are skipped.
func (b *RedisBridge) deliver(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		b.logger.Warn("discarding malformed event", zap.Error(err))
		return
	}

	if env.Origin == b.origin {
		return
	}

	b.hub.Publish(env.Event)
}
