// Package transform rewrites a record store before it is filtered.
package transform

import (
	"sort"
	"sync"

	"github.com/semihalev/ucache/cache"
	"github.com/semihalev/ucache/config"
	"github.com/semihalev/zlog/v2"
)

// Transformer produces a new store from s. Implementations must not modify s.
type Transformer interface {
	Name() string
	Transform(s *cache.Store) *cache.Store
}

type transformers struct {
	mu sync.RWMutex

	byName map[string]func(config.Config) Transformer
}

var registry = transformers{byName: make(map[string]func(config.Config) Transformer)}

// Register a transformer under name.
func Register(name string, new func(config.Config) Transformer) {
	zlog.Debug("Register transformer", "name", name)

	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.byName[name] = new
}

// List return names of registered transformers.
func List() (list []string) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for name := range registry.byName {
		list = append(list, name)
	}
	sort.Strings(list)

	return list
}

// Get returns the transformer registered as name, built from cfg. An empty
// name selects Identity.
func Get(name string, cfg config.Config) (Transformer, error) {
	if name == "" {
		return Identity{}, nil
	}

	registry.mu.RLock()
	new, ok := registry.byName[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, config.Errorf("unknown transformer %q, one of %v", name, List())
	}

	return new(cfg), nil
}

// Identity returns its input unchanged.
type Identity struct{}

// (Identity).Name name return transformer name.
func (Identity) Name() string { return "identity" }

// (Identity).Transform transform returns s.
func (Identity) Transform(s *cache.Store) *cache.Store { return s }
