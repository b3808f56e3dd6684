package http

import (
	"context"

	"registration-service/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) SubmitRequest(ctx context.Context, email, fullname, message string) (string, error) {
	args := m.Called(ctx, email, fullname, message)
	return args.String(0), args.Error(1)
}
func (m *MockRegistrationService) AcceptRequest(ctx context.Context, requestID string) (string, error) {
	args := m.Called(ctx, requestID)
	return args.String(0), args.Error(1)
}
func (m *MockRegistrationService) RejectRequest(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}
func (m *MockRegistrationService) ListRequests(ctx context.Context) ([]domain.RegistrationRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationService) GetRequest(ctx context.Context, requestID string) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationService) LatestRequestForEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
