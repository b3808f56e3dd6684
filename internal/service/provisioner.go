package service

import (
	"context"
	"errors"
	"fmt"

	"registration-service/internal/domain"
	"registration-service/internal/logger"
	"registration-service/internal/repository"
	"registration-service/internal/security"
)

type accountProvisioner struct {
	accounts repository.AccountRepository
	hash     func(string) (string, error)
}

func NewAccountProvisioner(accounts repository.AccountRepository) AccountProvisioner {
	return &accountProvisioner{
		accounts: accounts,
		hash:     security.HashPassword,
	}
}

func (p *accountProvisioner) FindActiveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	a, err := p.accounts.GetActiveByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return a, nil
}

func (p *accountProvisioner) CreateAccount(ctx context.Context, na domain.NewAccount) error {
	logger.ExternalServiceCall("accounts", "CreateAccount", "username", na.Username, "role", na.Role)

	hash, err := p.hash(na.Password)
	if err != nil {
		logger.ExternalServiceResult("accounts", "CreateAccount", err, "username", na.Username)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Username:     na.Username,
		Email:        na.Email,
		PasswordHash: hash,
		Role:         na.Role,
		StorageQuota: na.StorageQuota,
		Onboarding:   na.Onboarding,
	}
	err = p.accounts.Create(ctx, account)
	logger.ExternalServiceResult("accounts", "CreateAccount", err, "username", na.Username)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}
