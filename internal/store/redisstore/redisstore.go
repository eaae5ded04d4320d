// Package redisstore keeps the appointment collection as a single JSON value in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bookwise/backend/internal/store"
)

const DefaultKey = "bookwise:appointments"

type Store struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) LoadAll(ctx context.Context) (store.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.Snapshot{}, nil
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return store.DecodeSnapshot(data)
}

// SaveAll replaces the whole value. SET is atomic, so there is no partial state.
func (s *Store) SaveAll(ctx context.Context, snap store.Snapshot) error {
	data, err := store.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode appointments: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Ping is used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
