package cache

import (
	"time"

	errors "github.com/goliatone/go-errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-pagecache/internal/cacheinfra"
)

const (
	// DefaultCapacity is the number of head items remembered per key.
	DefaultCapacity = 40
	// DefaultPageSize is the page size requested from fetch collaborators.
	DefaultPageSize = 20
	// DefaultMaxAge is used by IsExpired when no explicit age is given.
	DefaultMaxAge = 30 * time.Minute
)

// Config holds the list cache settings shared by caches and controllers.
type Config struct {
	// Capacity caps the items stored per key (CACHE_CAP).
	Capacity int `yaml:"capacity" json:"capacity"`
	// PageSize is the size requested for every page (PAGE_SIZE). A response
	// shorter than PageSize marks the key as exhausted.
	PageSize int `yaml:"page_size" json:"page_size"`
	// MaxAge is the default expiry window for IsExpired consumers.
	MaxAge time.Duration `yaml:"max_age" json:"max_age"`
}

// DefaultConfig returns the list cache defaults.
func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		PageSize: DefaultPageSize,
		MaxAge:   DefaultMaxAge,
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxAge, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid list cache config")
	}
	return nil
}

// EntityConfig exposes the TTL store options used by EntityCache.
type EntityConfig struct {
	Capacity             int                 `yaml:"capacity" json:"capacity"`
	NumShards            int                 `yaml:"num_shards" json:"num_shards"`
	TTL                  time.Duration       `yaml:"ttl" json:"ttl"`
	EvictionPercentage   int                 `yaml:"eviction_percentage" json:"eviction_percentage"`
	EarlyRefresh         *EarlyRefreshConfig `yaml:"early_refresh,omitempty" json:"early_refresh,omitempty"`
	MissingRecordStorage bool                `yaml:"missing_record_storage" json:"missing_record_storage"`
	EvictionInterval     time.Duration       `yaml:"eviction_interval" json:"eviction_interval"`
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration `yaml:"min_async_refresh_time" json:"min_async_refresh_time"`
	MaxAsyncRefreshTime time.Duration `yaml:"max_async_refresh_time" json:"max_async_refresh_time"`
	SyncRefreshTime     time.Duration `yaml:"sync_refresh_time" json:"sync_refresh_time"`
	RetryBaseDelay      time.Duration `yaml:"retry_base_delay" json:"retry_base_delay"`
}

// DefaultEntityConfig returns an EntityConfig populated with the store defaults.
func DefaultEntityConfig() EntityConfig {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the entity store configuration is valid.
func (c EntityConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the default TTL cache service for the configuration.
func NewCacheService(cfg EntityConfig) (CacheService, error) {
	service, err := cacheinfra.NewSturdycService(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return service, nil
}

func (c EntityConfig) toInternal() cacheinfra.Config {
	var early *cacheinfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}

	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) EntityConfig {
	var early *EarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &EarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}

	return EntityConfig{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
