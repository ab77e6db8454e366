package service

import (
	"context"
	"encoding/json"
	"event_manager/model"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InventoryPublisher broadcasts inventory snapshots after committed changes.
type InventoryPublisher interface {
	Publish(ctx context.Context, snapshot model.InventorySnapshot) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.InventorySnapshot) error { return nil }

const snapshotTTL = 10 * time.Minute

func InventoryChannel(eventId uint) string {
	return fmt.Sprintf("event:%d:inventory", eventId)
}

func InventoryKey(eventId uint) string {
	return fmt.Sprintf("event:%d:inventory:last", eventId)
}

// RedisPublisher stores the latest snapshot and publishes it on the event's channel.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, snapshot model.InventorySnapshot) error {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	payload := string(b)

	if err := p.client.Set(ctx, InventoryKey(snapshot.EventId), payload, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("cache inventory snapshot: %w", err)
	}
	if err := p.client.Publish(ctx, InventoryChannel(snapshot.EventId), payload).Err(); err != nil {
		return fmt.Errorf("publish inventory snapshot: %w", err)
	}
	return nil
}

// Last returns the most recently published snapshot payload, or "" if none is cached.
func (p *RedisPublisher) Last(ctx context.Context, eventId uint) (string, error) {
	v, err := p.client.Get(ctx, InventoryKey(eventId)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (p *RedisPublisher) Subscribe(ctx context.Context, eventId uint) *redis.PubSub {
	return p.client.Subscribe(ctx, InventoryChannel(eventId))
}
