package operator

import (
	"log/slog"
	"slices"
	"sync"
)

// Provider contributes raw operator entries to the set being collected.
// Providers run in registration order and receive the same set.
type Provider func(set *RawSet)

// Collector is the registration point for operator providers.
//
// Register providers at startup, before the first Registry call. Register
// and Registry are safe for concurrent use; a Registry call sees the
// providers registered before it started.
type Collector struct {
	mu        sync.RWMutex
	providers []Provider
	logger    *slog.Logger
}

// NewCollector creates a Collector with the given providers.
// A nil logger uses slog.Default().
func NewCollector(logger *slog.Logger, providers ...Provider) *Collector {
	return &Collector{
		providers: slices.Clone(providers),
		logger:    logger,
	}
}

// Register appends a provider.
func (c *Collector) Register(p Provider) {
	if p == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = append(c.providers, p)
}

// Collect runs every provider over a fresh RawSet and returns it.
func (c *Collector) Collect() *RawSet {
	c.mu.RLock()
	providers := slices.Clone(c.providers)
	c.mu.RUnlock()

	set := NewRawSet()
	for _, p := range providers {
		p(set)
	}
	return set
}

// Registry collects raw entries and builds a fresh Registry from them.
// Dropped entries are logged at warn level and otherwise ignored.
func (c *Collector) Registry() *Registry {
	reg, errs := Build(c.Collect())
	c.logDropped(errs)
	return reg
}

// RegistryWithErrors is like Registry but also returns the dropped entries.
func (c *Collector) RegistryWithErrors() (*Registry, []*DefinitionError) {
	reg, errs := Build(c.Collect())
	c.logDropped(errs)
	return reg, errs
}

func (c *Collector) logDropped(errs []*DefinitionError) {
	if len(errs) == 0 {
		return
	}
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, e := range errs {
		logger.Warn("search operator dropped",
			"key", e.Key,
			"code", e.Code,
			"reason", e.Message,
		)
	}
}

// SetProvider returns a Provider that puts every entry of set, overwriting
// entries contributed earlier.
func SetProvider(set *RawSet) Provider {
	return func(dst *RawSet) {
		dst.Merge(set)
	}
}
