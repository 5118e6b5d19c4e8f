package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// RoomChannel returns the backplane channel name of a shipment room.
func RoomChannel(shipmentID string) string {
	return fmt.Sprintf("shipment:%s", shipmentID)
}

// RoomBackplane relays room events between server processes so every
// process can deliver them to its locally connected room members.
type RoomBackplane interface {
	// Publish sends one event to every subscriber of the channel.
	Publish(ctx context.Context, channel string, ev domain.RoomEvent) error
	// Subscribe delivers channel events to handler until ctx is cancelled.
	// It blocks; run it in its own goroutine.
	Subscribe(ctx context.Context, channel string, handler func(domain.RoomEvent)) error
}

type redisBackplane struct {
	client *redis.Client
}

// NewRedisBackplane create a RoomBackplane over redis pub/sub
func NewRedisBackplane(client *redis.Client) RoomBackplane {
	return &redisBackplane{client: client}
}

func (b *redisBackplane) Publish(ctx context.Context, channel string, ev domain.RoomEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, data).Err()
}

func (b *redisBackplane) Subscribe(ctx context.Context, channel string, handler func(domain.RoomEvent)) error {
	sub := b.client.Subscribe(ctx, channel)
	defer sub.Close()

	// wait for the subscription to be confirmed before consuming
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Log.Errorf("backplane: drop malformed event on %s: %v", channel, err)
				continue
			}
			handler(ev)
		}
	}
}
