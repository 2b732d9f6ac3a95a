package services

import (
	"context"
	"sort"
	"sync"
)

// Registry tracks the dependencies reported by the readiness probe
type Registry struct {
	mu           sync.RWMutex
	dependencies map[string]Dependency
}

// NewRegistry creates a new dependency registry
func NewRegistry() *Registry {
	return &Registry{
		dependencies: make(map[string]Dependency),
	}
}

// Register adds a dependency to the registry
func (r *Registry) Register(name string, dep Dependency) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dependencies[name] = dep
}

// List returns all registered dependency names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.dependencies))
	for name := range r.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheckAll checks health of all registered dependencies
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[string]error, len(r.dependencies))
	for name, dep := range r.dependencies {
		results[name] = dep.HealthCheck(ctx)
	}
	return results
}
