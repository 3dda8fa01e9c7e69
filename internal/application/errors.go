package application

import "errors"

var (
	ErrValidation = errors.New("validation failed")

	// sessions
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token expired")
	ErrUserNotFound      = errors.New("user not found")
	ErrUnverifiedAccount = errors.New("account not verified")
	ErrForbidden         = errors.New("forbidden")

	// credentials
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrDuplicateEmail             = errors.New("email already registered")
	ErrInvalidOrExpiredCode       = errors.New("invalid or expired verification code")
	ErrAlreadyVerified            = errors.New("account already verified")
	ErrInvalidOrExpiredResetToken = errors.New("invalid or expired reset token")
	ErrTooManyAttempts            = errors.New("too many failed attempts")

	// orders
	ErrEmptyItems      = errors.New("order has no items")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid order status")

	// catalog
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")

	// upstream collaborators
	ErrEmailDelivery = errors.New("email delivery failed")
	ErrImageUpload   = errors.New("image upload failed")
)
