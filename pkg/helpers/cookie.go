package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

type Manager struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

func NewCookie(domain string, secure bool, ttl time.Duration) *Manager {
	return &Manager{Domain: domain, Secure: secure, TTL: ttl}
}

// base holds every attribute shared by set and clear. Browsers only drop a
// cookie when path, domain and flags match the ones it was set with.
func (m *Manager) base() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		Domain:   m.Domain,
		Secure:   m.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (m *Manager) SetSession(c *gin.Context, token string) {
	ck := m.base()
	ck.Value = token
	ck.Expires = time.Now().Add(m.TTL)
	http.SetCookie(c.Writer, ck)
}

func (m *Manager) Clear(c *gin.Context) {
	ck := m.base()
	ck.Expires = time.Unix(0, 0)
	ck.MaxAge = -1
	http.SetCookie(c.Writer, ck)
}
