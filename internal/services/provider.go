package services

import "context"

// Dependency is an external service the server needs to be ready
type Dependency interface {
	// Type returns the dependency type name
	Type() string

	// HealthCheck checks if the dependency is reachable
	HealthCheck(ctx context.Context) error
}

// BaseDependency provides common functionality for dependencies
type BaseDependency struct {
	serviceType string
}

// Type returns the dependency type
func (d *BaseDependency) Type() string {
	return d.serviceType
}
