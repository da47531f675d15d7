package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNotFound indicates the requested key does not exist.
var ErrNotFound = errors.New("key not found")

// Entry pairs a key with its raw stored value.
type Entry struct {
	Key   string
	Value string
}

// Store is a thin wrapper over Redis string values. Records and sessions are
// stored as whole JSON documents under namespaced keys; every mutation is a
// full-value overwrite, so the last writer to a key wins.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

// Connect configures a Redis client using the supplied URL.
func Connect(url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return client, nil
}

// New wraps an established Redis client.
func New(client *redis.Client, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With().Str("component", "kvstore").Logger(),
	}
}

// Get returns the raw value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}

	return value, nil
}

// Set overwrites the value stored under key. Values never expire; removal is
// the caller's concern.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}

	return nil
}

// List returns every entry whose key matches the glob pattern. Ordering is
// whatever the store yields; callers must not attach meaning to it beyond
// display order.
func (s *Store) List(ctx context.Context, pattern string, withValues bool) ([]Entry, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("kv scan %s: %w", pattern, err)
	}

	entries := make([]Entry, 0, len(keys))
	if !withValues {
		for _, key := range keys {
			entries = append(entries, Entry{Key: key})
		}
		return entries, nil
	}

	if len(keys) == 0 {
		return entries, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("kv mget: %w", err)
	}

	for i, key := range keys {
		value, ok := values[i].(string)
		if !ok {
			s.logger.Warn().Str("key", key).Msg("value disappeared during listing")
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}

	return entries, nil
}
