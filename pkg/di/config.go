package di

import (
	"os"

	errors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagecache/cache"
)

// Config groups the settings of every cache held by a Container.
type Config struct {
	List   cache.Config       `yaml:"list" json:"list"`
	Entity cache.EntityConfig `yaml:"entity" json:"entity"`
}

// DefaultConfig returns the list and entity cache defaults.
func DefaultConfig() Config {
	return Config{
		List:   cache.DefaultConfig(),
		Entity: cache.DefaultEntityConfig(),
	}
}

// Validate checks both cache configurations.
func (c Config) Validate() error {
	if err := c.List.Validate(); err != nil {
		return err
	}
	return c.Entity.Validate()
}

// LoadConfig reads a YAML file and applies it on top of DefaultConfig.
// Durations use Go syntax, e.g. "30m".
//
//	list:
//	  capacity: 40
//	  page_size: 20
//	entity:
//	  ttl: 30m
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryInternal, "reading cache config").
			WithTextCode("CONFIG_READ").
			WithMetadata(map[string]any{"path": path})
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryBadInput, "parsing cache config").
			WithTextCode("CONFIG_PARSE").
			WithMetadata(map[string]any{"path": path})
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
