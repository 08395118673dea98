package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager serves an in-process user store. InTx calls are
// serialized, which makes check-then-write sequences atomic; there is no
// rollback, so fn must only write as its last step.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	txMu  sync.Mutex
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

// Store exposes the concrete repository, e.g. to delete users in tests.
func (m *MemoryRepositoryManager) Store() *users.MemoryRepository {
	return m.users
}

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m.users)
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
