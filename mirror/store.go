package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MrEthical07/goSentinel/digest"
)

var (
	// ErrDigestCollision is returned when a different name already owns a digest.
	ErrDigestCollision = errors.New("digest already published under a different name")
	// ErrUnavailable is returned while the circuit breaker rejects requests.
	ErrUnavailable = errors.New("mirror unavailable")
	// ErrBackend wraps Redis failures.
	ErrBackend = errors.New("mirror backend error")
)

// BreakerConfig tunes the circuit breaker in front of Redis.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// Config configures a Store.
type Config struct {
	Prefix  string
	TTL     time.Duration // zero keeps entries forever
	Breaker BreakerConfig
}

// DefaultConfig returns the settings NewStore falls back to for zero fields.
func DefaultConfig() Config {
	return Config{
		Prefix: "gs",
		Breaker: BreakerConfig{
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 5,
		},
	}
}

// Store is a Redis-backed digest to name index.
type Store struct {
	redis   redis.UniversalClient
	prefix  string
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewStore wraps client. A nil logger logs nothing.
func NewStore(client redis.UniversalClient, cfg Config, logger *zap.Logger) *Store {
	def := DefaultConfig()
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker.MaxRequests = def.Breaker.MaxRequests
	}
	if cfg.Breaker.Interval <= 0 {
		cfg.Breaker.Interval = def.Breaker.Interval
	}
	if cfg.Breaker.Timeout <= 0 {
		cfg.Breaker.Timeout = def.Breaker.Timeout
	}
	if cfg.Breaker.ConsecutiveFailures == 0 {
		cfg.Breaker.ConsecutiveFailures = def.Breaker.ConsecutiveFailures
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		redis:  client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		logger: logger,
	}

	threshold := cfg.Breaker.ConsecutiveFailures
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mirror-" + cfg.Prefix,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("mirror breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrDigestCollision)
		},
	})

	return s
}

func (s *Store) key(d digest.Digest) string {
	return s.prefix + ":" + d.String()
}

// Publish records name under d. Publishing the name that already owns d is a
// no-op.
func (s *Store) Publish(ctx context.Context, d digest.Digest, name string) error {
	_, err := s.execute(func() (interface{}, error) {
		ok, err := s.redis.SetNX(ctx, s.key(d), name, s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackend, err)
		}
		if ok {
			return nil, nil
		}

		owner, err := s.redis.Get(ctx, s.key(d)).Result()
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET.
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackend, err)
		}
		if owner != name {
			return nil, fmt.Errorf("%w: %s owned by %s, not %s", ErrDigestCollision, d, owner, name)
		}
		return nil, nil
	})
	return err
}

// Lookup returns the name published under d.
func (s *Store) Lookup(ctx context.Context, d digest.Digest) (string, bool, error) {
	res, err := s.execute(func() (interface{}, error) {
		name, err := s.redis.Get(ctx, s.key(d)).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackend, err)
		}
		return name, nil
	})
	if err != nil {
		return "", false, err
	}
	name, _ := res.(string)
	return name, name != "", nil
}

// Forget removes the entry for d.
func (s *Store) Forget(ctx context.Context, d digest.Digest) error {
	_, err := s.execute(func() (interface{}, error) {
		if err := s.redis.Del(ctx, s.key(d)).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackend, err)
		}
		return nil, nil
	})
	return err
}

// State reports the breaker state: "closed", "half-open" or "open".
func (s *Store) State() string {
	return s.breaker.State().String()
}

func (s *Store) execute(fn func() (interface{}, error)) (interface{}, error) {
	res, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res, err
}
