package domain

import "time"

// DefaultStorageQuota is 1 GiB.
const DefaultStorageQuota int64 = 1 << 30

const DefaultAccountRole = "user"

type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	StorageQuota int64      `json:"storage_quota"`
	Onboarding   bool       `json:"onboarding"`
	CreatedDate  time.Time  `json:"created_date"`
	DisabledDate *time.Time `json:"disabled_date,omitempty"`
}

func (a *Account) IsActive() bool {
	return a.DisabledDate == nil
}

// NewAccount carries what the registration workflow hands to the provisioner.
// Password is plain text and must only be hashed, never stored.
type NewAccount struct {
	Username     string
	Password     string
	Email        string
	Role         string
	StorageQuota int64
	Onboarding   bool
}
