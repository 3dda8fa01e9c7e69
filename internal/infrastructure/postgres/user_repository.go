package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/domain/repository"
)

const userColumns = `id, email, name, phone, password_hash, role, is_verified,
	verification_code, verification_expires_at, reset_token_hash, reset_expires_at,
	created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Password, &role, &u.IsVerified,
		&u.VerificationCode, &u.VerificationExpiresAt, &u.ResetTokenHash, &u.ResetExpiresAt,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, u.ID, entity.NormalizeEmail(u.Email), u.Name, u.Phone, u.Password, string(u.Role), u.IsVerified,
		u.VerificationCode, u.VerificationExpiresAt, u.ResetTokenHash, u.ResetExpiresAt,
		u.CreatedAt, u.UpdatedAt)
	return mapErr(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) GetByResetTokenHash(ctx context.Context, hash string, now time.Time) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE reset_token_hash = $1 AND reset_expires_at > $2
	`, hash, now))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $2, name = $3, phone = $4, password_hash = $5, role = $6, is_verified = $7,
			verification_code = $8, verification_expires_at = $9,
			reset_token_hash = $10, reset_expires_at = $11, updated_at = $12
		WHERE id = $1
	`, u.ID, entity.NormalizeEmail(u.Email), u.Name, u.Phone, u.Password, string(u.Role), u.IsVerified,
		u.VerificationCode, u.VerificationExpiresAt, u.ResetTokenHash, u.ResetExpiresAt, u.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = NULL, reset_expires_at = NULL
		WHERE reset_expires_at IS NOT NULL AND reset_expires_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
