package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/domain/repository"
)

var userCols = []string{"id", "email", "name", "phone", "password_hash", "role", "is_verified",
	"verification_code", "verification_expires_at", "reset_token_hash", "reset_expires_at",
	"created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()
	code := "12345"
	exp := now.Add(5 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE lower(email) = lower($1)")).
		WithArgs("a@x.io").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			"u-1", "a@x.io", "Ann", "0123456789", "hash", "admin", false,
			&code, &exp, (*string)(nil), (*time.Time)(nil), now, now,
		))

	u, err := repo.GetByEmail(context.Background(), "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	require.NotNil(t, u.VerificationCode)
	assert.Equal(t, "12345", *u.VerificationCode)
	assert.Nil(t, u.ResetTokenHash)
}

func TestUserRepository_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(userCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "a@x.io", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "user", false,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.User{ID: "u-1", Email: " A@X.io", Name: "Ann", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &entity.User{ID: "u-1", Email: "a@x.io", Role: entity.RoleUser})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ClearExpiredResetTokens(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("SET reset_token_hash = NULL, reset_expires_at = NULL")).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.ClearExpiredResetTokens(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMapErr_InvalidUUIDReadsAsNotFound(t *testing.T) {
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "22P02"}), repository.ErrNotFound)
	assert.Nil(t, mapErr(nil))
}
