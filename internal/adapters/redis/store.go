package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bpkcongli/schema-checker/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.RejectionStore using Redis.
//
// Each rejection is a JSON string key; a sorted set scored by rejection time
// indexes them for List. Keys expire with the configured TTL and their index
// entries are pruned lazily on List.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for rejections.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for rejections.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// DefaultPrefix is the key prefix used when WithPrefix is not given.
const DefaultPrefix = "schemachecker:rejection:"

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the rejection to Redis.
func (s *Store) Save(ctx context.Context, rejection *domain.Rejection) error {
	data, err := json.Marshal(rejection)
	if err != nil {
		return fmt.Errorf("failed to marshal rejection: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(rejection.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(rejection.At.UnixMilli()),
		Member: rejection.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the rejection from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.Rejection, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrRejectionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var r domain.Rejection
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rejection: %w", err)
	}
	return &r, nil
}

// List returns rejections newest first. Index entries whose key has expired
// are dropped, so fewer than limit rejections may be returned.
func (s *Store) List(ctx context.Context, limit int) ([]*domain.Rejection, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rejections: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Rejection{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get rejections: %w", err)
	}

	out := make([]*domain.Rejection, 0, len(vals))
	var expired []any
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var r domain.Rejection
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rejection %s: %w", ids[i], err)
		}
		out = append(out, &r)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired rejections: %w", err)
		}
	}

	return out, nil
}

// Delete removes the rejection.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
