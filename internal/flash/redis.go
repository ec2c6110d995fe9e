package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

const keyPrefix = "flash:"

// Redis stores messages in a list per session so several app
// instances share one notice channel.
type Redis struct {
	pool *redis.Pool
	ttl  time.Duration
}

func NewRedisPool(url string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     8,
		IdleTimeout: 240 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.DialURL(url) },
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// NewRedis keeps unread messages for ttl.
func NewRedis(pool *redis.Pool, ttl time.Duration) *Redis {
	return &Redis{pool: pool, ttl: ttl}
}

func (s *Redis) Push(ctx context.Context, sid string, m Message) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	key := keyPrefix + sid
	_ = conn.Send("MULTI")
	_ = conn.Send("RPUSH", key, b)
	_ = conn.Send("EXPIRE", key, int(s.ttl/time.Second))
	if _, err := conn.Do("EXEC"); err != nil {
		return fmt.Errorf("redis push: %w", err)
	}
	return nil
}

func (s *Redis) Pop(ctx context.Context, sid string) ([]Message, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	key := keyPrefix + sid
	_ = conn.Send("MULTI")
	_ = conn.Send("LRANGE", key, 0, -1)
	_ = conn.Send("DEL", key)
	replies, err := redis.Values(conn.Do("EXEC"))
	if err != nil {
		return nil, fmt.Errorf("redis pop: %w", err)
	}
	items, err := redis.ByteSlices(replies[0], nil)
	if err != nil {
		return nil, fmt.Errorf("redis pop: %w", err)
	}
	out := make([]Message, 0, len(items))
	for _, it := range items {
		var m Message
		if err := json.Unmarshal(it, &m); err != nil {
			return nil, fmt.Errorf("decode flash: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Redis) Clear(ctx context.Context, sid string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()
	_, err = conn.Do("DEL", keyPrefix+sid)
	return err
}
