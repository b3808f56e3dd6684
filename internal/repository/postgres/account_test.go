package postgres

import (
	"context"
	"testing"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAccountRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		a := &domain.Account{Username: "a@x.com", Email: "a@x.com", PasswordHash: "hash", Role: "user", StorageQuota: domain.DefaultStorageQuota, Onboarding: true}

		mock.ExpectExec("INSERT INTO accounts").
			WithArgs(sqlmock.AnyArg(), "a@x.com", "a@x.com", "hash", "user", domain.DefaultStorageQuota, true, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, a))
		assert.NotEmpty(t, a.ID)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		a := &domain.Account{Username: "a@x.com", Email: "a@x.com", PasswordHash: "hash", Role: "user"}

		mock.ExpectExec("INSERT INTO accounts").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_username_key"})

		err := repo.Create(ctx, a)
		assert.ErrorIs(t, err, repository.ErrUsernameTaken)
	})

	t.Run("OtherFailure", func(t *testing.T) {
		a := &domain.Account{Username: "c@x.com"}

		mock.ExpectExec("INSERT INTO accounts").
			WillReturnError(assert.AnError)

		err := repo.Create(ctx, a)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, repository.ErrUsernameTaken)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetActiveByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAccountRepository(db)
	ctx := context.Background()

	cols := []string{"id", "username", "email", "password_hash", "role", "storage_quota", "onboarding", "created_date"}
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username = \\$1 AND disabled_date IS NULL").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "a@x.com", "a@x.com", "hash", "user", int64(1<<30), true, time.Now()))

	a, err := repo.GetActiveByUsername(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", a.ID)
	assert.True(t, a.IsActive())

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows(cols))

	_, err = repo.GetActiveByUsername(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewStore(db)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS registration_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
