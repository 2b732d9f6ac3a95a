package services

import (
	"context"
	"fmt"

	"github.com/terra-clan/portfolio/internal/storage"
)

// PostgresDependency checks the database behind the remote data gateway
type PostgresDependency struct {
	BaseDependency
	pool storage.Pinger
}

// NewPostgresDependency wraps a connection pool
func NewPostgresDependency(pool storage.Pinger) *PostgresDependency {
	return &PostgresDependency{
		BaseDependency: BaseDependency{serviceType: "postgres"},
		pool:           pool,
	}
}

// HealthCheck verifies PostgreSQL connectivity
func (d *PostgresDependency) HealthCheck(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}
