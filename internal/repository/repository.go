package repository

import (
	"context"
	"errors"
	"time"

	"registration-service/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Create when the supplied ID is already taken.
	ErrDuplicateID = errors.New("record id already exists")
	// ErrStaleRecord is returned by Update when the stored version moved on.
	ErrStaleRecord   = errors.New("record was modified concurrently")
	ErrUsernameTaken = errors.New("username already exists")
)

type RegistrationRequestRepository interface {
	Create(ctx context.Context, req *domain.RegistrationRequest) (string, error)
	GetByID(ctx context.Context, id string) (*domain.RegistrationRequest, error)
	// FindAll lists every request, newest CreatedDate first.
	FindAll(ctx context.Context) ([]domain.RegistrationRequest, error)
	GetLatestByEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error)
	Update(ctx context.Context, req *domain.RegistrationRequest) error
	CountByStatus(ctx context.Context, status domain.RequestStatus) (int, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationRequest, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetActiveByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// Pinger is implemented by stores that can report their own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
