package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "ragfw:audit"

// RedisSink keeps events in a Redis list, optionally capped at MaxLen.
type RedisSink struct {
	client *redis.Client
	key    string
	MaxLen int64
}

func NewRedisSink(client *redis.Client, key string) *RedisSink {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSink{client: client, key: key}
}

func (s *RedisSink) Append(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode audit event: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("failed to RPUSH %s: %w", s.key, err)
	}
	if s.MaxLen > 0 {
		if err := s.client.LTrim(ctx, s.key, -s.MaxLen, -1).Err(); err != nil {
			return fmt.Errorf("failed to LTRIM %s: %w", s.key, err)
		}
	}
	return nil
}

func (s *RedisSink) Tail(ctx context.Context, n int) ([]Event, error) {
	start := int64(0)
	if n > 0 {
		start = -int64(n)
	}
	values, err := s.client.LRange(ctx, s.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to LRANGE %s: %w", s.key, err)
	}
	events := make([]Event, 0, len(values))
	for _, v := range values {
		var ev Event
		if err := json.Unmarshal([]byte(v), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
