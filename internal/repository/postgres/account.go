package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/logger"
	"registration-service/internal/repository"

	"github.com/google/uuid"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedDate.IsZero() {
		a.CreatedDate = time.Now().UTC()
	}

	query := `INSERT INTO accounts (id, username, email, password_hash, role, storage_quota, onboarding, created_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	logger.DatabaseCall("INSERT", "accounts", "username", a.Username)

	_, err := r.db.ExecContext(ctx, query, a.ID, a.Username, a.Email, a.PasswordHash, a.Role, a.StorageQuota, a.Onboarding, a.CreatedDate)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "username", a.Username)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrUsernameTaken, a.Username)
		}
		return err
	}
	logger.DatabaseResult("INSERT", 1, nil, "username", a.Username)
	return nil
}

func (r *accountRepository) GetActiveByUsername(ctx context.Context, username string) (*domain.Account, error) {
	a := &domain.Account{}
	query := `SELECT id, username, email, password_hash, role, storage_quota, onboarding, created_date
	          FROM accounts WHERE username = $1 AND disabled_date IS NULL`
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.StorageQuota, &a.Onboarding, &a.CreatedDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
