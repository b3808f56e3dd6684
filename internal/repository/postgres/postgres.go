package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"registration-service/internal/logger"
	"registration-service/internal/repository"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

type Store struct {
	db       *sql.DB
	Requests repository.RegistrationRequestRepository
	Accounts repository.AccountRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		Requests: NewRegistrationRequestRepository(db),
		Accounts: NewAccountRepository(db),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the tables and indexes the service needs. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	logger.DatabaseCall("MIGRATE", "registration_requests,accounts")
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		logger.DatabaseResult("MIGRATE", 0, err)
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.DatabaseResult("MIGRATE", 0, nil)
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
