package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Column limits of the registration_requests table.
const (
	MaxEmailLength    = 100
	MaxFullnameLength = 200
	MaxMessageLength  = 1000
)

// ParseRequestStatus maps a stored or user supplied status onto the closed set,
// ignoring letter case.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case RequestStatusPending:
		return RequestStatusPending, nil
	case RequestStatusAccepted:
		return RequestStatusAccepted, nil
	case RequestStatusRejected:
		return RequestStatusRejected, nil
	}
	return "", fmt.Errorf("%w: unknown request status %q", ErrValidation, s)
}

// IsTerminal reports whether no transition may leave the status.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// CanTransitionTo reports whether s -> target is an edge of the review state machine.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	return s == RequestStatusPending && target.IsTerminal()
}

type RegistrationRequest struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	Fullname    string        `json:"fullname"`
	Message     string        `json:"message"`
	Status      RequestStatus `json:"status"`
	CreatedDate time.Time     `json:"created_date"`
	Version     int32         `json:"-"`
}

// IsPending reports whether the request still awaits review.
func (r *RegistrationRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// Transition moves the request to target, or fails with ErrAlreadyProcessed
// when the request has already been reviewed.
func (r *RegistrationRequest) Transition(target RequestStatus) error {
	if !r.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: request %s is %s", ErrAlreadyProcessed, r.ID, r.Status)
	}
	r.Status = target
	return nil
}

// NewRegistrationRequest trims email and fullname, validates guest input and
// returns a PENDING request. The message is kept verbatim.
func NewRegistrationRequest(email, fullname, message string) (*RegistrationRequest, error) {
	email = strings.TrimSpace(email)
	fullname = strings.TrimSpace(fullname)

	if email == "" || fullname == "" {
		return nil, fmt.Errorf("%w: email and fullname are required", ErrValidation)
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return nil, fmt.Errorf("%w: email exceeds %d characters", ErrValidation, MaxEmailLength)
	}
	if utf8.RuneCountInString(fullname) > MaxFullnameLength {
		return nil, fmt.Errorf("%w: fullname exceeds %d characters", ErrValidation, MaxFullnameLength)
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, MaxMessageLength)
	}

	return &RegistrationRequest{
		Email:    email,
		Fullname: fullname,
		Message:  message,
		Status:   RequestStatusPending,
	}, nil
}
