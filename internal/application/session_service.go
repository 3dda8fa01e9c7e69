package application

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	repo "github.com/oksasatya/shop-admin/internal/domain/repository"
	"github.com/oksasatya/shop-admin/pkg/helpers"
)

type Session struct {
	Token     string
	ExpiresAt time.Time
}

// UserContext is the authenticated caller resolved from a session token.
type UserContext struct {
	UserID string
	Role   entity.Role
	User   *entity.User
}

// SessionService issues and validates signed session tokens. Tokens are not
// persisted; the user row is re-read on every validation so role changes
// and deletions apply immediately.
type SessionService struct {
	Users repo.UserRepository
	JWT   *helpers.JWTManager
}

func NewSessionService(users repo.UserRepository, jwt *helpers.JWTManager) *SessionService {
	return &SessionService{Users: users, JWT: jwt}
}

func (s *SessionService) Issue(userID string) (Session, error) {
	tok, exp, err := s.JWT.Generate(userID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, ExpiresAt: exp}, nil
}

func (s *SessionService) Validate(ctx context.Context, token string) (*UserContext, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsVerified {
		return nil, ErrUnverifiedAccount
	}
	return &UserContext{UserID: u.ID, Role: u.Role, User: u}, nil
}

// Authorize succeeds when uc holds one of roles.
func (s *SessionService) Authorize(uc *UserContext, roles ...entity.Role) error {
	if uc == nil || !slices.Contains(roles, uc.Role) {
		return ErrForbidden
	}
	return nil
}
