package domain

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrAlreadyExistingUsername = errors.New("username already in use")
	ErrUnknownRequest          = errors.New("registration request not found")
	ErrAlreadyProcessed        = errors.New("registration request already processed")
	ErrForbidden               = errors.New("forbidden")

	// ErrProvisioningFailed marks an unclassified account creation failure. It is a
	// server side error and is never retried by the workflow.
	ErrProvisioningFailed = errors.New("account provisioning failed")
)

// IsClientError reports whether err is caused by the caller rather than the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAlreadyExistingUsername) ||
		errors.Is(err, ErrUnknownRequest) ||
		errors.Is(err, ErrAlreadyProcessed) ||
		errors.Is(err, ErrForbidden)
}
