package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	repo "github.com/oksasatya/shop-admin/internal/domain/repository"
	"github.com/oksasatya/shop-admin/pkg/helpers"
)

// AccountMailer delivers the credential emails synchronously.
type AccountMailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string, expiresAt time.Time) error
}

// AttemptCounter keeps per-key failure counts that expire after a window.
type AttemptCounter interface {
	Count(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type AuthConfig struct {
	VerifyCodeTTL     time.Duration
	ResetTokenTTL     time.Duration
	FrontendURL       string
	VerifyMaxAttempts int // zero disables the lockout
}

type AuthService struct {
	Users    repo.UserRepository
	Sessions *SessionService
	Mailer   AccountMailer
	Logger   *logrus.Logger
	Config   AuthConfig
	Attempts AttemptCounter // optional

	Now           func() time.Time
	NewCode       func() (string, error)
	NewResetToken func() (raw, hash string, err error)
}

func NewAuthService(users repo.UserRepository, sessions *SessionService, mailer AccountMailer, logger *logrus.Logger, cfg AuthConfig) *AuthService {
	return &AuthService{
		Users:         users,
		Sessions:      sessions,
		Mailer:        mailer,
		Logger:        logger,
		Config:        cfg,
		Now:           time.Now,
		NewCode:       helpers.GenVerificationCode,
		NewResetToken: helpers.GenResetToken,
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Phone    string
}

// Register creates an unverified user and mails its verification code.
// If the mail cannot be delivered the user is removed again.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, Session, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Name) == "" || in.Password == "" {
		return nil, Session{}, ErrValidation
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, Session{}, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, Session{}, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, Session{}, err
	}
	code, err := s.NewCode()
	if err != nil {
		return nil, Session{}, err
	}
	now := s.Now()
	expires := now.Add(s.Config.VerifyCodeTTL)
	u := &entity.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Phone:     in.Phone,
		Password:  hash,
		Role:      entity.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.SetVerificationCode(code, expires)
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, Session{}, ErrDuplicateEmail
		}
		return nil, Session{}, err
	}

	if err := s.Mailer.SendVerificationCode(ctx, u.Email, u.Name, code, expires); err != nil {
		if dErr := s.Users.Delete(ctx, u.ID); dErr != nil {
			s.Logger.WithError(dErr).WithField("user_id", u.ID).Error("rollback of unverifiable user failed")
		}
		s.Logger.WithError(err).WithField("email", u.Email).Warn("verification email failed")
		return nil, Session{}, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	sess, err := s.Sessions.Issue(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

// Verify consumes the verification code and opens a session.
func (s *AuthService) Verify(ctx context.Context, email, code string) (*entity.User, Session, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, Session{}, ErrUserNotFound
		}
		return nil, Session{}, err
	}
	if u.IsVerified {
		return nil, Session{}, ErrAlreadyVerified
	}
	key := verifyAttemptsKey(u.ID)
	if s.lockedOut(ctx, key) {
		return nil, Session{}, ErrTooManyAttempts
	}
	if !u.VerificationCodeMatches(strings.TrimSpace(code), s.Now()) {
		s.recordFailure(ctx, key)
		return nil, Session{}, ErrInvalidOrExpiredCode
	}
	u.MarkVerified()
	u.UpdatedAt = s.Now()
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, Session{}, err
	}
	if s.Attempts != nil {
		if err := s.Attempts.Reset(ctx, key); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("verify attempts reset failed")
		}
	}
	sess, err := s.Sessions.Issue(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

func verifyAttemptsKey(userID string) string { return "attempts:verify:" + userID }

// lockedOut fails open when the counter is unreachable.
func (s *AuthService) lockedOut(ctx context.Context, key string) bool {
	if s.Attempts == nil || s.Config.VerifyMaxAttempts <= 0 {
		return false
	}
	n, err := s.Attempts.Count(ctx, key)
	if err != nil {
		s.Logger.WithError(err).Warn("verify attempts lookup failed")
		return false
	}
	return n >= int64(s.Config.VerifyMaxAttempts)
}

// recordFailure counts a wrong code for the lifetime of one code.
func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.Attempts == nil || s.Config.VerifyMaxAttempts <= 0 {
		return
	}
	window := s.Config.VerifyCodeTTL
	if window <= 0 {
		window = 5 * time.Minute
	}
	if _, err := s.Attempts.Incr(ctx, key, window); err != nil {
		s.Logger.WithError(err).Warn("verify attempts increment failed")
	}
}

// Login fails with ErrUnverifiedAccount for unverified users whatever the password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, Session, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.CompareHashAndPassword("", password)
			return nil, Session{}, ErrInvalidCredentials
		}
		return nil, Session{}, err
	}
	match := helpers.CompareHashAndPassword(u.Password, password)
	if !u.IsVerified {
		return nil, Session{}, ErrUnverifiedAccount
	}
	if !match {
		return nil, Session{}, ErrInvalidCredentials
	}
	sess, err := s.Sessions.Issue(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

// CurrentUser returns the user the session middleware resolved.
func (s *AuthService) CurrentUser(uc *UserContext) (*entity.User, error) {
	if uc == nil || uc.User == nil {
		return nil, ErrUserNotFound
	}
	return uc.User, nil
}

// RequestPasswordReset stores the hash of a fresh reset token and mails the raw
// token inside a frontend link. An undeliverable token is cleared again.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	raw, hash, err := s.NewResetToken()
	if err != nil {
		return err
	}
	now := s.Now()
	expires := now.Add(s.Config.ResetTokenTTL)
	u.SetResetToken(hash, expires)
	u.UpdatedAt = now
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}

	resetURL := s.Config.FrontendURL + "/password/reset/" + raw
	if err := s.Mailer.SendPasswordReset(ctx, u.Email, u.Name, resetURL, expires); err != nil {
		u.ClearResetToken()
		if uErr := s.Users.Update(ctx, u); uErr != nil {
			s.Logger.WithError(uErr).WithField("user_id", u.ID).Error("clearing undeliverable reset token failed")
		}
		s.Logger.WithError(err).WithField("email", u.Email).Warn("password reset email failed")
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if strings.TrimSpace(rawToken) == "" {
		return ErrInvalidOrExpiredResetToken
	}
	if newPassword == "" {
		return ErrValidation
	}
	u, err := s.Users.GetByResetTokenHash(ctx, helpers.HashToken(rawToken), s.Now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidOrExpiredResetToken
		}
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ClearResetToken()
	u.UpdatedAt = s.Now()
	return s.Users.Update(ctx, u)
}

// SetRole changes a user's role; used by the admin CLI.
func (s *AuthService) SetRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Role = role
	u.UpdatedAt = s.Now()
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
