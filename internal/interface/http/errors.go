package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/pkg/helpers"
	"github.com/oksasatya/shop-admin/pkg/response"
	"github.com/oksasatya/shop-admin/pkg/validation"
)

type statusRule struct {
	target error
	status int
}

// Order matters: the first matching rule wins.
var statusRules = []statusRule{
	{application.ErrValidation, http.StatusBadRequest},
	{application.ErrEmptyItems, http.StatusBadRequest},
	{application.ErrInvalidStatus, http.StatusBadRequest},
	{application.ErrInvalidOrExpiredCode, http.StatusBadRequest},
	{application.ErrInvalidOrExpiredResetToken, http.StatusBadRequest},
	{application.ErrAlreadyVerified, http.StatusBadRequest},
	{helpers.ErrInvalidUpload, http.StatusBadRequest},
	{helpers.ErrPasswordTooLong, http.StatusBadRequest},

	{application.ErrUserNotFound, http.StatusNotFound},
	{application.ErrOrderNotFound, http.StatusNotFound},
	{application.ErrProductNotFound, http.StatusNotFound},
	{application.ErrCategoryNotFound, http.StatusNotFound},

	{application.ErrDuplicateEmail, http.StatusConflict},
	{application.ErrDuplicateCategory, http.StatusConflict},

	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrInvalidToken, http.StatusUnauthorized},
	{application.ErrExpiredToken, http.StatusUnauthorized},

	{application.ErrUnverifiedAccount, http.StatusForbidden},
	{application.ErrForbidden, http.StatusForbidden},

	{application.ErrTooManyAttempts, http.StatusTooManyRequests},

	{application.ErrEmailDelivery, http.StatusBadGateway},
	{application.ErrImageUpload, http.StatusBadGateway},
}

// ErrorWriter translates service errors into the response envelope.
// Internal details are echoed only outside production.
type ErrorWriter struct {
	Logger     *logrus.Logger
	Production bool
}

func NewErrorWriter(logger *logrus.Logger, production bool) *ErrorWriter {
	return &ErrorWriter{Logger: logger, Production: production}
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	for _, r := range statusRules {
		if errors.Is(err, r.target) {
			return r.status
		}
	}
	return http.StatusInternalServerError
}

func (w *ErrorWriter) Write(c *gin.Context, err error) {
	status := StatusFor(err)
	switch {
	case status >= http.StatusInternalServerError:
		helpers.RequestLogger(w.Logger, c).WithError(err).Error("request failed")
		msg := "internal server error"
		if status == http.StatusBadGateway {
			msg = upstreamMessage(err)
		}
		response.Error[any](c, status, msg, w.detail(err))
	default:
		response.Error[any](c, status, err.Error(), nil)
	}
}

// Bind writes a 400 with per-field details for a binding failure.
func (w *ErrorWriter) Bind(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func (w *ErrorWriter) detail(err error) any {
	if w.Production {
		return nil
	}
	return err.Error()
}

func upstreamMessage(err error) string {
	if errors.Is(err, application.ErrEmailDelivery) {
		return application.ErrEmailDelivery.Error()
	}
	return application.ErrImageUpload.Error()
}
