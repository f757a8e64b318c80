// Package pubsub fans proctoring events out to live admin viewers.
package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

func ProctoringChannel(candidateID string) string { return "proctoring:" + candidateID }

type Publisher interface {
	Publish(ctx context.Context, channel string, v any) error
}

type Subscriber interface {
	// Subscribe delivers raw JSON payloads until ctx ends. The returned
	// close func releases the subscription.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error)
}

type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error) {
	ps := b.rdb.Subscribe(ctx, channel)
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			m, err := ps.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			select {
			case out <- []byte(m.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, ps.Close
}

// Nop drops everything; used when redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Subscribe(ctx context.Context, _ string) (<-chan []byte, func() error) {
	out := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, func() error { return nil }
}
