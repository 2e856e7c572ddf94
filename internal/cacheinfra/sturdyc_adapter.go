package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// Config sizes the sturdyc client behind entity caches.
type Config struct {
	// Capacity is the number of records kept before eviction starts.
	Capacity int
	// NumShards splits the store to reduce lock contention.
	NumShards int
	// TTL is how long a record stays live after it was last written.
	TTL time.Duration
	// EvictionPercentage of the records are evicted when Capacity is reached.
	EvictionPercentage int
	// EarlyRefresh enables background refreshes for records read through
	// GetOrFetch. Nil disables them.
	EarlyRefresh *EarlyRefreshConfig
	// MissingRecordStorage remembers ids the source reported as missing.
	MissingRecordStorage bool
	// EvictionInterval is how often expired records are swept. Zero keeps
	// the sturdyc default.
	EvictionInterval time.Duration
}

// EarlyRefreshConfig maps to sturdyc.WithEarlyRefreshes.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig keeps profile style records for thirty minutes.
func DefaultConfig() Config {
	return Config{
		Capacity:           1000,
		NumShards:          16,
		TTL:                30 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ConfigError reports the first invalid setting or argument.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

type rule struct {
	field  string
	failed bool
	msg    string
}

// Validate returns a *ConfigError for the first invalid setting.
func (c Config) Validate() error {
	rules := []rule{
		{"Capacity", c.Capacity <= 0, "must be greater than 0"},
		{"NumShards", c.NumShards <= 0, "must be greater than 0"},
		{"TTL", c.TTL <= 0, "must be greater than 0"},
		{"EvictionPercentage", c.EvictionPercentage < 1 || c.EvictionPercentage > 100, "must be between 1 and 100"},
		{"EvictionInterval", c.EvictionInterval < 0, "must be non-negative"},
	}
	if r := c.EarlyRefresh; r != nil {
		rules = append(rules,
			rule{"EarlyRefresh.MinAsyncRefreshTime", r.MinAsyncRefreshTime < 0, "must be non-negative"},
			rule{"EarlyRefresh.MaxAsyncRefreshTime", r.MaxAsyncRefreshTime < r.MinAsyncRefreshTime, "must not be lower than MinAsyncRefreshTime"},
			rule{"EarlyRefresh.SyncRefreshTime", r.SyncRefreshTime < 0, "must be non-negative"},
			rule{"EarlyRefresh.RetryBaseDelay", r.RetryBaseDelay < 0, "must be non-negative"},
		)
	}

	for _, r := range rules {
		if r.failed {
			return &ConfigError{Field: r.field, Message: r.msg}
		}
	}
	return nil
}

// ToSturdycOptions returns the options for the optional settings. The
// sizing settings are passed to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var opts []sturdyc.Option
	if r := c.EarlyRefresh; r != nil {
		opts = append(opts, sturdyc.WithEarlyRefreshes(
			r.MinAsyncRefreshTime,
			r.MaxAsyncRefreshTime,
			r.SyncRefreshTime,
			r.RetryBaseDelay,
		))
	}
	if c.MissingRecordStorage {
		opts = append(opts, sturdyc.WithMissingRecordStorage())
	}
	if c.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return opts
}

// SturdycService stores records of any type in a sturdyc client.
type SturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService validates cfg and creates the client.
func NewSturdycService(cfg Config) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)
	return &SturdycService{client: client}, nil
}

// GetOrFetch returns the live record for key or stores the result of load.
// Concurrent misses for the same key share one load; errors are not stored.
func (s *SturdycService) GetOrFetch(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if load == nil {
		return nil, &ConfigError{Field: "load", Message: "cannot be nil"}
	}
	return s.client.GetOrFetch(ctx, key, load)
}

func (s *SturdycService) Get(ctx context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

func (s *SturdycService) Set(ctx context.Context, key string, value any) error {
	s.client.Set(key, value)
	return nil
}

func (s *SturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes every record whose key starts with prefix.
func (s *SturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

// Keys lists the keys currently held, in no particular order.
func (s *SturdycService) Keys(ctx context.Context) []string {
	return s.client.ScanKeys()
}
