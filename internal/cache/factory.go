// Package cache selects the image cache backend named in configuration.
package cache

import (
	"fmt"

	"grokimg/internal/config"
	"grokimg/internal/domain"
	"grokimg/internal/port"
)

// CloseFunc releases resources held by a cache backend.
type CloseFunc func() error

// BackendFactory creates an ImageCache from application config.
type BackendFactory func(cfg *config.Config) (port.ImageCache, CloseFunc, error)

// registry of cache backend factories, populated explicitly via RegisterBackend.
var backends = map[domain.CacheBackend]BackendFactory{}

// RegisterBackend registers a cache backend factory by name.
func RegisterBackend(name domain.CacheBackend, factory BackendFactory) {
	backends[name] = factory
}

// NewCache creates the configured ImageCache. Backend "none" returns a nil
// cache, which disables local upload references.
func NewCache(cfg *config.Config) (port.ImageCache, CloseFunc, error) {
	if cfg.Cache.Backend == domain.CacheBackendNone {
		return nil, noopClose, nil
	}
	factory, ok := backends[cfg.Cache.Backend]
	if !ok {
		return nil, nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
	c, closeFn, err := factory(cfg)
	if err != nil {
		return nil, nil, err
	}
	if closeFn == nil {
		closeFn = noopClose
	}
	return c, closeFn, nil
}

func noopClose() error { return nil }
