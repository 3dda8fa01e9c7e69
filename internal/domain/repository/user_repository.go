package repository

import (
	"context"
	"time"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetTokenHash returns the user whose reset hash matches and is unexpired at now.
	GetByResetTokenHash(ctx context.Context, hash string, now time.Time) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	// ClearExpiredResetTokens removes reset hashes that expired before now.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
