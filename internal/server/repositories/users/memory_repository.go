package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// MemoryRepository keeps users in process memory. It enforces the same
// email uniqueness as the Postgres schema and is meant for development and
// tests only.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return nil, common.ErrorAlreadyExists
	}

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Email = email
	stored.CreatedAt = r.now().UTC()
	stored.UpdatedAt = stored.CreatedAt

	r.byID[stored.ID] = &stored
	r.byEmail[email] = stored.ID

	*user = stored
	return user, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *MemoryRepository) UpdateName(ctx context.Context, id string, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Name = name
	u.UpdatedAt = r.now().UTC()

	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) UpdateEmail(ctx context.Context, id string, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	email = models.NormalizeEmail(email)
	if owner, taken := r.byEmail[email]; taken && owner != id {
		return nil, common.ErrorAlreadyExists
	}

	delete(r.byEmail, u.Email)
	u.Email = email
	u.UpdatedAt = r.now().UTC()
	r.byEmail[email] = id

	cp := *u
	return &cp, nil
}

// Delete removes a user. No API route deletes accounts; it exists so tests
// can simulate a record vanishing after a token was issued.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}
