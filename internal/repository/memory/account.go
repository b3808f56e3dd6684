package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/repository"

	"github.com/google/uuid"
)

type accountRepository struct {
	mu         sync.RWMutex
	byUsername map[string]domain.Account
}

func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{byUsername: make(map[string]domain.Account)}
}

// Create enforces username uniqueness across active and disabled accounts,
// like the unique index on accounts.username.
func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[a.Username]; ok {
		return fmt.Errorf("%w: %s", repository.ErrUsernameTaken, a.Username)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedDate.IsZero() {
		a.CreatedDate = time.Now().UTC()
	}
	r.byUsername[a.Username] = *a
	return nil
}

func (r *accountRepository) GetActiveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byUsername[username]
	if !ok || !a.IsActive() {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}
