// Package repomanager vends the repositories used by the services and hides
// which storage backend is behind them.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

// RepositoryManager owns the storage backend.
type RepositoryManager interface {
	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context) error

	// Users returns a repository bound to the shared connection.
	Users() users.Repository

	// InTx runs fn with a repository bound to a single transaction. The
	// transaction commits when fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error

	Close() error
}
