package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/pkg/helpers"
	"github.com/oksasatya/shop-admin/pkg/response"
)

const userContextKey = "auth_user"

// Auth resolves the session token from the "token" cookie, or a Bearer
// header as fallback, and stores the caller in the Gin context.
// It sets userID and userRole on success.
func Auth(sessions *application.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uc, err := sessions.Validate(c.Request.Context(), tokenFrom(c))
		if err != nil {
			sessionError(c, err)
			return
		}
		c.Set(userContextKey, uc)
		c.Set("userID", uc.UserID)
		c.Set("userRole", string(uc.Role))
		c.Next()
	}
}

// RequireRoles must run after Auth.
func RequireRoles(sessions *application.SessionService, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		uc, _ := CurrentUser(c)
		if err := sessions.Authorize(uc, roles...); err != nil {
			sessionError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the caller stored by Auth.
func CurrentUser(c *gin.Context) (*application.UserContext, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	uc, ok := v.(*application.UserContext)
	return uc, ok && uc != nil
}

func tokenFrom(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.SessionCookieName); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "you are not allowed to access this resource", nil)
	case errors.Is(err, application.ErrUnverifiedAccount):
		response.Error[any](c, http.StatusForbidden, "please verify your account first", nil)
	case errors.Is(err, application.ErrExpiredToken):
		response.Error[any](c, http.StatusUnauthorized, "session expired, please login again", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusUnauthorized, "user no longer exists", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusUnauthorized, "please login to access this resource", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
