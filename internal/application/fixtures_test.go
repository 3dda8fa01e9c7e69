package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/infrastructure/memory"
	"github.com/oksasatya/shop-admin/pkg/helpers"
)

var errSMTP = errors.New("smtp down")

type sentMail struct {
	To, Name, Code, URL string
	ExpiresAt           time.Time
}

type fakeMailer struct {
	mu     sync.Mutex
	fail   bool
	codes  []sentMail
	resets []sentMail
}

func (m *fakeMailer) SendVerificationCode(_ context.Context, to, name, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errSMTP
	}
	m.codes = append(m.codes, sentMail{To: to, Name: name, Code: code, ExpiresAt: expiresAt})
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, name, resetURL string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errSMTP
	}
	m.resets = append(m.resets, sentMail{To: to, Name: name, URL: resetURL, ExpiresAt: expiresAt})
	return nil
}

func (m *fakeMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[len(m.codes)-1].Code
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func nullLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

type authFixture struct {
	users   *memory.UserRepo
	mailer  *fakeMailer
	clock   *clock
	auth    *AuthService
	session *SessionService
	hook    *logtest.Hook
}

func newAuthFixture() *authFixture {
	users := memory.NewUserRepo()
	jwt := helpers.NewJWTManager("test-secret", 24*time.Hour)
	sessions := NewSessionService(users, jwt)
	mailer := &fakeMailer{}
	logger, hook := nullLogger()
	clk := newClock()
	auth := NewAuthService(users, sessions, mailer, logger, AuthConfig{
		VerifyCodeTTL: 5 * time.Minute,
		ResetTokenTTL: 5 * time.Minute,
		FrontendURL:   "https://shop.example.com",
	})
	auth.Now = clk.Now
	return &authFixture{users: users, mailer: mailer, clock: clk, auth: auth, session: sessions, hook: hook}
}

func (f *authFixture) registerVerified(email, password string, role entity.Role) *entity.User {
	ctx := context.Background()
	u, _, err := f.auth.Register(ctx, RegisterInput{Email: email, Name: "Test", Password: password, Phone: "0123456789"})
	if err != nil {
		panic(err)
	}
	if _, _, err := f.auth.Verify(ctx, email, f.mailer.lastCode()); err != nil {
		panic(err)
	}
	if role != entity.RoleUser {
		if _, err := f.auth.SetRole(ctx, email, role); err != nil {
			panic(err)
		}
	}
	u, _ = f.users.GetByID(ctx, u.ID)
	return u
}
