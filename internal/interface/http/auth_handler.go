package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/interface/middleware"
	"github.com/oksasatya/shop-admin/pkg/helpers"
	"github.com/oksasatya/shop-admin/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.Manager
	Errors  *ErrorWriter
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.Manager, errs *ErrorWriter, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Errors: errs, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=50"`
	Password string `json:"password" binding:"required,pwd"`
	Phone    string `json:"phone_number" binding:"required,phone10"`
}

// UnmarshalJSON also accepts the phone under "phoneNumber".
func (r *registerRequest) UnmarshalJSON(b []byte) error {
	type plain registerRequest
	var aux struct {
		plain
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = registerRequest(aux.plain)
	if r.Phone == "" {
		r.Phone = aux.PhoneNumber
	}
	return nil
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=5,numeric"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetRequest struct {
	Password        string `json:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

type sessionData struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

func (h *AuthHandler) startSession(c *gin.Context, status int, u *entity.User, sess application.Session, msg string) {
	h.Cookies.SetSession(c, sess.Token)
	response.Success(c, status, sessionData{User: u, Token: sess.Token}, msg, gin.H{"expires_at": sess.ExpiresAt})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	u, sess, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	helpers.RequestLogger(h.Logger, c).WithField("new_user_id", u.ID).Info("user registered")
	h.startSession(c, http.StatusCreated, u, sess, "verification code sent to "+u.Email)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	u, sess, err := h.Svc.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	h.startSession(c, http.StatusOK, u, sess, "account verified")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	u, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	h.startSession(c, http.StatusOK, u, sess, "login successful")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	uc, _ := middleware.CurrentUser(c)
	u, err := h.Svc.CurrentUser(uc)
	if err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "current user", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password reset link sent to "+entity.NormalizeEmail(req.Email), nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.Bind(c, err)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		h.Errors.Write(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}
