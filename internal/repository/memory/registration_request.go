package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/repository"

	"github.com/google/uuid"
)

type registrationRequestRepository struct {
	mu   sync.RWMutex
	reqs map[string]domain.RegistrationRequest
}

func NewRegistrationRequestRepository() repository.RegistrationRequestRepository {
	return &registrationRequestRepository{reqs: make(map[string]domain.RegistrationRequest)}
}

func (r *registrationRequestRepository) Create(ctx context.Context, req *domain.RegistrationRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if _, ok := r.reqs[req.ID]; ok {
		return "", fmt.Errorf("%w: %s", repository.ErrDuplicateID, req.ID)
	}
	if req.CreatedDate.IsZero() {
		req.CreatedDate = time.Now().UTC()
	}
	req.Version = 1
	r.reqs[req.ID] = *req
	return req.ID, nil
}

func (r *registrationRequestRepository) GetByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.reqs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &req, nil
}

func (r *registrationRequestRepository) FindAll(ctx context.Context) ([]domain.RegistrationRequest, error) {
	return r.filter(func(domain.RegistrationRequest) bool { return true }), nil
}

func (r *registrationRequestRepository) GetLatestByEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error) {
	matches := r.filter(func(req domain.RegistrationRequest) bool { return req.Email == email })
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	return &matches[0], nil
}

func (r *registrationRequestRepository) Update(ctx context.Context, req *domain.RegistrationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.reqs[req.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != req.Version {
		return fmt.Errorf("%w: request %s", repository.ErrStaleRecord, req.ID)
	}

	// identity, submitted fields and CreatedDate are immutable
	stored.Status = req.Status
	stored.Version++
	r.reqs[req.ID] = stored
	req.Version = stored.Version
	return nil
}

func (r *registrationRequestRepository) CountByStatus(ctx context.Context, status domain.RequestStatus) (int, error) {
	return len(r.filter(func(req domain.RegistrationRequest) bool { return req.Status == status })), nil
}

func (r *registrationRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationRequest, error) {
	reqs := r.filter(func(req domain.RegistrationRequest) bool {
		return req.IsPending() && req.CreatedDate.Before(cutoff)
	})
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedDate.Before(reqs[j].CreatedDate) })
	return reqs, nil
}

// filter returns matching requests newest first, ties broken by ID.
func (r *registrationRequestRepository) filter(keep func(domain.RegistrationRequest) bool) []domain.RegistrationRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.RegistrationRequest{}
	for _, req := range r.reqs {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].CreatedDate.After(out[j].CreatedDate)
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out
}
