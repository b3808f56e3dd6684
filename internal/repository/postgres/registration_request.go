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

const registrationRequestColumns = `id, email, fullname, COALESCE(message, ''), status, created_date, version`

type registrationRequestRepository struct {
	db *sql.DB
}

func NewRegistrationRequestRepository(db *sql.DB) repository.RegistrationRequestRepository {
	return &registrationRequestRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistrationRequest(row rowScanner) (*domain.RegistrationRequest, error) {
	req := &domain.RegistrationRequest{}
	var status string
	if err := row.Scan(&req.ID, &req.Email, &req.Fullname, &req.Message, &status, &req.CreatedDate, &req.Version); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRequestStatus(status)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.ID, err)
	}
	req.Status = parsed
	return req, nil
}

func (r *registrationRequestRepository) Create(ctx context.Context, req *domain.RegistrationRequest) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedDate.IsZero() {
		req.CreatedDate = time.Now().UTC()
	}
	req.Version = 1

	query := `INSERT INTO registration_requests (id, email, fullname, message, status, created_date, version)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	logger.DatabaseCall("INSERT", "registration_requests", "id", req.ID)

	res, err := r.db.ExecContext(ctx, query, req.ID, req.Email, req.Fullname, nullString(req.Message), string(req.Status), req.CreatedDate, req.Version)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "id", req.ID)
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", repository.ErrDuplicateID, req.ID)
		}
		return "", err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("INSERT", n, nil, "id", req.ID)
	return req.ID, nil
}

func (r *registrationRequestRepository) GetByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationRequestColumns + ` FROM registration_requests WHERE id = $1`
	req, err := scanRegistrationRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *registrationRequestRepository) FindAll(ctx context.Context) ([]domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationRequestColumns + ` FROM registration_requests ORDER BY created_date DESC, id`
	return r.list(ctx, "FindAll", query)
}

func (r *registrationRequestRepository) GetLatestByEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationRequestColumns + ` FROM registration_requests
	          WHERE email = $1 ORDER BY created_date DESC, id LIMIT 1`
	req, err := scanRegistrationRequest(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Update persists the status of req if nobody else changed the row since it was read.
func (r *registrationRequestRepository) Update(ctx context.Context, req *domain.RegistrationRequest) error {
	query := `UPDATE registration_requests SET status = $1, version = version + 1 WHERE id = $2 AND version = $3`
	logger.DatabaseCall("UPDATE", "registration_requests", "id", req.ID, "version", req.Version)

	res, err := r.db.ExecContext(ctx, query, string(req.Status), req.ID, req.Version)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "id", req.ID)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", n, nil, "id", req.ID)

	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM registration_requests WHERE id = $1)`, req.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return fmt.Errorf("%w: request %s", repository.ErrStaleRecord, req.ID)
	}

	req.Version++
	return nil
}

func (r *registrationRequestRepository) CountByStatus(ctx context.Context, status domain.RequestStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM registration_requests WHERE UPPER(status) = $1`
	if err := r.db.QueryRowContext(ctx, query, string(status)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationRequestColumns + ` FROM registration_requests
	          WHERE UPPER(status) = $1 AND created_date < $2 ORDER BY created_date`
	return r.list(ctx, "ListPendingOlderThan", query, string(domain.RequestStatusPending), cutoff)
}

func (r *registrationRequestRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.RegistrationRequest, error) {
	logger.DatabaseCall("SELECT", "registration_requests", "op", op)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "op", op)
		return nil, err
	}
	defer rows.Close()

	reqs := []domain.RegistrationRequest{}
	for rows.Next() {
		req, err := scanRegistrationRequest(rows)
		if err != nil {
			logger.DatabaseResult("SELECT", int64(len(reqs)), err, "op", op)
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(reqs)), nil, "op", op)
	return reqs, nil
}
