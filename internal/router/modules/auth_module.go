package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shop-admin/internal/application"
	handlers "github.com/oksasatya/shop-admin/internal/interface/http"
	"github.com/oksasatya/shop-admin/internal/interface/middleware"
)

// AuthModule wires registration, verification, login and password reset.
// Public: POST /auth/register, /auth/verify-email, /auth/login, /auth/forgot-password,
// PUT /auth/reset/password/:token
// Protected: DELETE /auth/logout, GET /auth/get-user
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Sessions *application.SessionService
	RDB      *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, sessions *application.SessionService, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	mailLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", mailLimiter, m.Handler.Register)
	auth.POST("/verify-email", verifyLimiter, m.Handler.VerifyEmail)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/forgot-password", mailLimiter, m.Handler.ForgotPassword)
	auth.PUT("/reset/password/:token", verifyLimiter, m.Handler.ResetPassword)

	session := auth.Group("/")
	session.Use(middleware.Auth(m.Sessions))
	{
		session.DELETE("/logout", m.Handler.Logout)
		session.GET("/get-user", m.Handler.GetUser)
	}
}
