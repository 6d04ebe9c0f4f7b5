package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

// Store is a small TTL cache over redis used for the public job listing.
// A nil *Store is valid and behaves as an always-miss cache, so the API
// degrades to direct DB reads when redis is not configured.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.rdb == nil {
		return nil, ErrMiss
	}

	b, err := s.rdb.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}

	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, val []byte) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	return s.rdb.Set(ctx, key, val, s.ttl).Err()
}

// InvalidatePrefix drops every key under the given prefix. Listing keys
// are few (bounded by filter combinations), so SCAN is fine here.
func (s *Store) InvalidatePrefix(ctx context.Context, prefix string) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()

	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}
