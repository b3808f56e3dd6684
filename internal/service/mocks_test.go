package service

import (
	"context"
	"time"

	"registration-service/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockRegistrationRequestRepo
type MockRegistrationRequestRepo struct {
	mock.Mock
}

func (m *MockRegistrationRequestRepo) Create(ctx context.Context, req *domain.RegistrationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *MockRegistrationRequestRepo) GetByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRequestRepo) FindAll(ctx context.Context) ([]domain.RegistrationRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRequestRepo) GetLatestByEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRequestRepo) Update(ctx context.Context, req *domain.RegistrationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRegistrationRequestRepo) CountByStatus(ctx context.Context, status domain.RequestStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}
func (m *MockRegistrationRequestRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationRequest, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.RegistrationRequest), args.Error(1)
}

// MockAccountProvisioner
type MockAccountProvisioner struct {
	mock.Mock
}

func (m *MockAccountProvisioner) FindActiveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountProvisioner) CreateAccount(ctx context.Context, account domain.NewAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetActiveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
