package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"registration-service/internal/domain"
	"registration-service/internal/lock"
	"registration-service/internal/logger"
	"registration-service/internal/repository"
	"registration-service/internal/security"
)

type RegistrationOptions struct {
	DefaultRole  string
	StorageQuota int64
	// GeneratePassword defaults to security.GeneratePassword.
	GeneratePassword PasswordGenerator
}

type registrationService struct {
	reqRepo          repository.RegistrationRequestRepository
	provisioner      AccountProvisioner
	locker           lock.Locker
	generatePassword PasswordGenerator
	defaultRole      string
	storageQuota     int64
}

func NewRegistrationService(
	reqRepo repository.RegistrationRequestRepository,
	provisioner AccountProvisioner,
	locker lock.Locker,
	opts RegistrationOptions,
) RegistrationService {
	s := &registrationService{
		reqRepo:          reqRepo,
		provisioner:      provisioner,
		locker:           locker,
		generatePassword: opts.GeneratePassword,
		defaultRole:      opts.DefaultRole,
		storageQuota:     opts.StorageQuota,
	}
	if s.locker == nil {
		s.locker = lock.NewKeyedMutex()
	}
	if s.generatePassword == nil {
		s.generatePassword = security.GeneratePassword
	}
	if s.defaultRole == "" {
		s.defaultRole = domain.DefaultAccountRole
	}
	if s.storageQuota <= 0 {
		s.storageQuota = domain.DefaultStorageQuota
	}
	return s
}

func (s *registrationService) SubmitRequest(ctx context.Context, email, fullname, message string) (id string, err error) {
	const method = "RegistrationService.SubmitRequest"
	logger.EnterMethod(method, "email", email)
	defer func() { s.exit(method, err, "request_id", id) }()

	req, err := domain.NewRegistrationRequest(email, fullname, message)
	if err != nil {
		return "", err
	}

	// Two concurrent submissions for one email may both pass this check. Both
	// requests are kept; the provisioner rejects the second account at accept time.
	existing, err := s.provisioner.FindActiveByUsername(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrAlreadyExistingUsername, req.Email)
	}

	id, err = s.reqRepo.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create registration request: %w", err)
	}
	logger.Info("Registration request submitted", "request_id", id)
	return id, nil
}

func (s *registrationService) AcceptRequest(ctx context.Context, requestID string) (password string, err error) {
	const method = "RegistrationService.AcceptRequest"
	logger.EnterMethod(method, "request_id", requestID)
	defer func() { s.exit(method, err, "request_id", requestID) }()

	err = s.review(ctx, requestID, domain.RequestStatusAccepted, func(req *domain.RegistrationRequest) error {
		generated, err := s.generatePassword()
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrProvisioningFailed, err)
		}

		err = s.provisioner.CreateAccount(ctx, domain.NewAccount{
			Username:     req.Email,
			Password:     generated,
			Email:        req.Email,
			Role:         s.defaultRole,
			StorageQuota: s.storageQuota,
			Onboarding:   true,
		})
		if errors.Is(err, repository.ErrUsernameTaken) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExistingUsername, req.Email)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrProvisioningFailed, err)
		}
		password = generated
		return nil
	})
	if err != nil {
		return "", err
	}
	return password, nil
}

func (s *registrationService) RejectRequest(ctx context.Context, requestID string) (err error) {
	const method = "RegistrationService.RejectRequest"
	logger.EnterMethod(method, "request_id", requestID)
	defer func() { s.exit(method, err, "request_id", requestID) }()

	return s.review(ctx, requestID, domain.RequestStatusRejected, nil)
}

// review moves a PENDING request to target while holding the request's lock.
// sideEffect runs before the status change; if it fails nothing is persisted.
func (s *registrationService) review(ctx context.Context, requestID string, target domain.RequestStatus, sideEffect func(*domain.RegistrationRequest) error) error {
	unlock, err := s.locker.Lock(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to lock registration request %s: %w", requestID, err)
	}
	defer unlock()

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownRequest, requestID)
	}
	if err != nil {
		return fmt.Errorf("failed to get registration request: %w", err)
	}
	if !req.IsPending() {
		return fmt.Errorf("%w: request %s is %s", domain.ErrAlreadyProcessed, requestID, req.Status)
	}

	if sideEffect != nil {
		if err := sideEffect(req); err != nil {
			return err
		}
	}

	if err := req.Transition(target); err != nil {
		return err
	}
	if err := s.reqRepo.Update(ctx, req); err != nil {
		if target == domain.RequestStatusAccepted {
			logger.Error("Account provisioned but request status not saved", "request_id", requestID, "username", req.Email, "error", err)
		}
		switch {
		case errors.Is(err, repository.ErrStaleRecord):
			return fmt.Errorf("%w: %s", domain.ErrAlreadyProcessed, requestID)
		case errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("%w: %s", domain.ErrUnknownRequest, requestID)
		}
		return fmt.Errorf("failed to update registration request: %w", err)
	}

	logger.Info("Registration request reviewed", "request_id", requestID, "status", req.Status)
	return nil
}

func (s *registrationService) ListRequests(ctx context.Context) ([]domain.RegistrationRequest, error) {
	reqs, err := s.reqRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registration requests: %w", err)
	}
	return reqs, nil
}

func (s *registrationService) GetRequest(ctx context.Context, requestID string) (*domain.RegistrationRequest, error) {
	req, err := s.reqRepo.GetByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRequest, requestID)
	}
	return req, err
}

func (s *registrationService) LatestRequestForEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error) {
	email = strings.TrimSpace(email)
	req, err := s.reqRepo.GetLatestByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: no request for %s", domain.ErrUnknownRequest, email)
	}
	return req, err
}

func (s *registrationService) exit(method string, err error, args ...any) {
	if err != nil {
		logger.ExitMethodWithError(method, err, domain.IsClientError(err), args...)
		return
	}
	logger.ExitMethod(method, args...)
}
