// Package cache decorates a Store with a Redis read-through cache for
// single-record lookups. Scans pass through untouched.
//
// Cache failures degrade to the inner store: a broken Redis never fails a
// request, it only costs the hit.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"roster/internal/user/models"
	"roster/internal/user/service"
	id "roster/pkg/domain"
)

// DefaultTTL bounds staleness for cached records. Writes invalidate
// eagerly, so the TTL only matters for out-of-band mutations.
const DefaultTTL = 5 * time.Minute

// Store wraps an inner Store with per-ID caching.
type Store struct {
	inner  service.Store
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a cache Store.
type Option func(*Store)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger for degraded-cache warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New wraps inner with a Redis read-through cache.
func New(inner service.Store, client redis.Cmdable, opts ...Option) *Store {
	s := &Store{
		inner:  inner,
		client: client,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(userID id.UserID) string {
	return "roster:user:" + userID.String()
}

// Insert delegates and primes the cache with the stored record.
func (s *Store) Insert(ctx context.Context, user models.User) (models.User, error) {
	stored, err := s.inner.Insert(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	s.prime(ctx, stored)
	return stored, nil
}

// FindByID serves from cache when possible, falling back to the inner store
// and priming on a miss.
func (s *Store) FindByID(ctx context.Context, userID id.UserID) (models.User, error) {
	raw, err := s.client.Get(ctx, cacheKey(userID)).Bytes()
	if err == nil {
		var user models.User
		if unmarshalErr := json.Unmarshal(raw, &user); unmarshalErr == nil {
			return user, nil
		}
		// Corrupt entry; drop it and fall through.
		s.invalidate(ctx, userID)
	} else if err != redis.Nil {
		s.warn(ctx, "cache read failed", userID, err)
	}

	user, err := s.inner.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	s.prime(ctx, user)
	return user, nil
}

// FindAll passes through to the inner store.
func (s *Store) FindAll(ctx context.Context) ([]models.User, error) {
	return s.inner.FindAll(ctx)
}

// FindByBirthDateRange passes through to the inner store.
func (s *Store) FindByBirthDateRange(ctx context.Context, from, to models.Date) ([]models.User, error) {
	return s.inner.FindByBirthDateRange(ctx, from, to)
}

// Replace delegates and invalidates the cached record.
func (s *Store) Replace(ctx context.Context, user models.User) error {
	if err := s.inner.Replace(ctx, user); err != nil {
		return err
	}
	s.invalidate(ctx, user.ID)
	return nil
}

// DeleteByID delegates and invalidates the cached record.
func (s *Store) DeleteByID(ctx context.Context, userID id.UserID) error {
	if err := s.inner.DeleteByID(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Store) prime(ctx context.Context, user models.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, cacheKey(user.ID), raw, s.ttl).Err(); err != nil {
		s.warn(ctx, "cache write failed", user.ID, err)
	}
}

func (s *Store) invalidate(ctx context.Context, userID id.UserID) {
	if err := s.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		s.warn(ctx, "cache invalidation failed", userID, err)
	}
}

func (s *Store) warn(ctx context.Context, msg string, userID id.UserID, err error) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, "user_id", userID, "error", err)
	}
}
