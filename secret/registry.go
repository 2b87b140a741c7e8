package secret

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ProviderFactory builds a Provider from its settings. Unknown settings are
// ignored.
type ProviderFactory func(cfg map[string]any) (Provider, error)

// Registry maps provider names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Register adds factory under name. Names are trimmed and must be unique.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("%w: name %q", ErrInvalidProvider, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.factories[name]; taken {
		return fmt.Errorf("%w: %q already registered", ErrInvalidProvider, name)
	}
	r.factories[name] = factory
	return nil
}

// Create builds the provider registered under name.
func (r *Registry) Create(name string, cfg map[string]any) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[strings.TrimSpace(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return factory(cfg)
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// DefaultRegistry holds the env provider (setting "prefix") and the file
// provider (setting "root").
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	_ = r.Register("env", func(cfg map[string]any) (Provider, error) {
		return NewEnvProvider(stringSetting(cfg, "prefix")), nil
	})
	_ = r.Register("file", func(cfg map[string]any) (Provider, error) {
		return NewFileProvider(stringSetting(cfg, "root")), nil
	})
	return r
}()

func stringSetting(cfg map[string]any, key string) string {
	s, _ := cfg[key].(string)
	return s
}
