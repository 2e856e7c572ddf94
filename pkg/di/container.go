package di

import (
	"log/slog"

	"github.com/goliatone/go-pagecache/cache"
	"github.com/goliatone/go-pagecache/counter"
	"github.com/goliatone/go-pagecache/pagination"
	"github.com/goliatone/go-pagecache/pkg/model"
	"github.com/goliatone/go-pagecache/repositorycache"
)

// SellerNamespace is the key namespace of the seller profile cache.
var SellerNamespace = repositorycache.Namespace[model.Seller]()

// Container owns the process wide caches: one list cache per item type, the
// article counter map and the seller profile cache. Controllers created from
// the same container share them.
type Container struct {
	config   Config
	logger   *slog.Logger
	keys     cache.KeySerializer
	service  cache.CacheService
	articles *cache.ListCache[model.Article]
	books    *cache.ListCache[model.Book]
	counters *counter.Map
	sellers  *cache.EntityCache[model.Seller]
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewContainer validates config and builds the caches.
func NewContainer(config Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	service, err := cache.NewCacheService(config.Entity)
	if err != nil {
		return nil, err
	}

	keys := cache.NewDefaultKeySerializer()
	c := &Container{
		config:   config,
		logger:   slog.Default(),
		keys:     keys,
		service:  service,
		articles: cache.NewListCache[model.Article](config.List),
		books:    cache.NewListCache[model.Book](config.List),
		counters: counter.New(),
		sellers:  cache.NewEntityCacheWithService[model.Seller](SellerNamespace, service, keys),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewContainerWithDefaults creates a container using DefaultConfig.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(DefaultConfig(), opts...)
}

// Config returns the configuration the container was built with.
func (c *Container) Config() Config {
	return c.config
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keys
}

func (c *Container) CacheService() cache.CacheService {
	return c.service
}

func (c *Container) Articles() *cache.ListCache[model.Article] {
	return c.articles
}

func (c *Container) Books() *cache.ListCache[model.Book] {
	return c.books
}

func (c *Container) ArticleCounters() *counter.Map {
	return c.counters
}

// Sellers returns the seller profile cache.
func (c *Container) Sellers() *cache.EntityCache[model.Seller] {
	return c.sellers
}

// NewArticleController creates a controller over the shared article cache
// and counter map. opts are applied after the container defaults.
func (c *Container) NewArticleController(fetchers pagination.Fetchers[model.Article], opts ...pagination.Option) *pagination.Controller[model.Article] {
	base := append(c.controllerOptions(), pagination.WithCounters(c.counters))
	return pagination.New(c.articles, fetchers, append(base, opts...)...)
}

// NewBookController creates a controller over the shared book cache.
func (c *Container) NewBookController(fetchers pagination.Fetchers[model.Book], opts ...pagination.Option) *pagination.Controller[model.Book] {
	return pagination.New(c.books, fetchers, append(c.controllerOptions(), opts...)...)
}

func (c *Container) controllerOptions() []pagination.Option {
	return []pagination.Option{
		pagination.WithLogger(c.logger),
		pagination.WithKeySerializer(c.keys),
		pagination.WithPageSize(c.config.List.PageSize),
	}
}

// NewSellerDirectory serves seller profiles from store through the shared
// seller cache.
func (c *Container) NewSellerDirectory(store repositorycache.Store[model.Seller]) *repositorycache.Directory[model.Seller] {
	return repositorycache.New(store, c.sellers)
}

// Stats returns a diagnostic snapshot of both list caches.
func (c *Container) Stats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"articles": c.articles.Stats(),
		"books":    c.books.Stats(),
	}
}
