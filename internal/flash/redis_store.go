package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "flash:"

// RedisStore keeps each session's messages in a list that expires after ttl.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (s *RedisStore) Push(ctx context.Context, session string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal flash message: %w", err)
	}

	key := keyPrefix + session
	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, s.TTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash message: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, session string) ([]Message, error) {
	key := keyPrefix + session

	var lrange *redis.StringSliceCmd
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pop flash messages: %w", err)
	}

	msgs := make([]Message, 0, len(lrange.Val()))
	for _, raw := range lrange.Val() {
		var msg Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
