package service

import (
	"context"

	"registration-service/internal/domain"
)

type RegistrationService interface {
	SubmitRequest(ctx context.Context, email, fullname, message string) (string, error)
	// AcceptRequest provisions the account and returns its generated password.
	// The password is not retrievable afterwards.
	AcceptRequest(ctx context.Context, requestID string) (string, error)
	RejectRequest(ctx context.Context, requestID string) error
	ListRequests(ctx context.Context) ([]domain.RegistrationRequest, error)
	GetRequest(ctx context.Context, requestID string) (*domain.RegistrationRequest, error)
	LatestRequestForEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error)
}

// AccountProvisioner owns account creation and the truth about taken usernames.
type AccountProvisioner interface {
	// FindActiveByUsername returns nil, nil when no active account has the username.
	FindActiveByUsername(ctx context.Context, username string) (*domain.Account, error)
	// CreateAccount fails with an error wrapping repository.ErrUsernameTaken when
	// the username exists.
	CreateAccount(ctx context.Context, account domain.NewAccount) error
}

type PasswordGenerator func() (string, error)
