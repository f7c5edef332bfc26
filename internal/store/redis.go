// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisTimestampKey   = "pii-sentry:recognizers:timestamp"
	redisDefinitionsKey = "pii-sentry:recognizers"
)

// RedisStore keeps custom recognizer definitions in a Redis hash keyed by
// recognizer name, with a separate timestamp key bumped on every write.
// Multiple analyzer instances can share one store and pick up changes made
// by any of them.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis at addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis store: ping %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// LatestTimestamp returns the stored change timestamp, or zero when no write
// has happened yet.
func (s *RedisStore) LatestTimestamp(ctx context.Context) (int64, error) {
	val, err := s.client.Get(ctx, redisTimestampKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis store: read timestamp: %w", err)
	}
	ts, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis store: malformed timestamp %q: %w", val, err)
	}
	return ts, nil
}

// AllRecognizers loads and decodes every stored definition.
func (s *RedisStore) AllRecognizers(ctx context.Context) ([]Definition, error) {
	entries, err := s.client.HGetAll(ctx, redisDefinitionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: read definitions: %w", err)
	}

	defs := make([]Definition, 0, len(entries))
	for name, raw := range entries {
		var def Definition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return nil, fmt.Errorf("redis store: decode definition %q: %w", name, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Upsert stores a definition under its name and bumps the change timestamp.
func (s *RedisStore) Upsert(ctx context.Context, def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("redis store: encode definition %q: %w", def.Name, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, redisDefinitionsKey, def.Name, raw)
	pipe.Set(ctx, redisTimestampKey, strconv.FormatInt(time.Now().Unix(), 10), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: write definition %q: %w", def.Name, err)
	}
	return nil
}

// Remove deletes a definition by name and bumps the change timestamp.
func (s *RedisStore) Remove(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, redisDefinitionsKey, name)
	pipe.Set(ctx, redisTimestampKey, strconv.FormatInt(time.Now().Unix(), 10), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: delete definition %q: %w", name, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
