// Package di provides dependency injection for the object-mapping components.
package di

import (
	"github.com/goliatone/go-cassandra-mapper/cache"
	"github.com/goliatone/go-cassandra-mapper/cassandra"
	"github.com/goliatone/go-cassandra-mapper/conversion"
)

// Container manages singleton instances of the conversion registry, the cache
// service and the key serializer, and provides factory methods for building
// templates on top of them.
type Container struct {
	conversions   *conversion.CustomConversions
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	config        cache.Config
}

// NewContainer creates a DI container from the given converters and cache
// configuration. Converter registration failures and invalid cache
// configuration both abort construction.
func NewContainer(converters []any, config cache.Config, opts ...conversion.Option) (*Container, error) {
	conversions, err := conversion.New(converters, opts...)
	if err != nil {
		return nil, err
	}

	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		conversions:   conversions,
		cacheService:  cacheService,
		keySerializer: cache.NewStatementKeySerializer(),
		config:        config,
	}, nil
}

// NewContainerWithDefaults creates a container with no user converters
// (built-in converter groups only) and the default cache configuration.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(nil, cache.DefaultConfig())
}

// Conversions returns the singleton conversion registry.
func (c *Container) Conversions() *conversion.CustomConversions {
	return c.conversions
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewTemplate builds an uncached template over the given session using the
// container's conversion registry.
func (c *Container) NewTemplate(session cassandra.Session, opts ...cassandra.TemplateOption) (*cassandra.Template, error) {
	return cassandra.NewTemplate(session, c.conversions, opts...)
}

// NewCachedTemplate builds a template decorated with the container's cache
// service and key serializer.
func (c *Container) NewCachedTemplate(session cassandra.Session, opts ...cassandra.TemplateOption) (*cassandra.CachedTemplate, error) {
	base, err := c.NewTemplate(session, opts...)
	if err != nil {
		return nil, err
	}
	return cassandra.NewCached(base, c.cacheService, c.keySerializer), nil
}
