package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the credential store.
// Password holds a bcrypt hash and is never serialized.
// ResetTokenHash holds the sha256 of the token mailed to the user, never the token itself.
type User struct {
	ID         string `json:"_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone_number"`
	Password   string `json:"-"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"account_verified"`

	VerificationCode      *string    `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	ResetTokenHash        *string    `json:"-"`
	ResetExpiresAt        *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetVerificationCode stores a single-use code valid until expires.
func (u *User) SetVerificationCode(code string, expires time.Time) {
	u.VerificationCode = &code
	u.VerificationExpiresAt = &expires
}

// VerificationCodeMatches reports whether code equals the stored one and is still valid at now.
func (u *User) VerificationCodeMatches(code string, now time.Time) bool {
	if u.VerificationCode == nil || u.VerificationExpiresAt == nil {
		return false
	}
	return *u.VerificationCode == code && now.Before(*u.VerificationExpiresAt)
}

// MarkVerified flips the verified flag and consumes the code.
func (u *User) MarkVerified() {
	u.IsVerified = true
	u.VerificationCode = nil
	u.VerificationExpiresAt = nil
}

func (u *User) SetResetToken(hash string, expires time.Time) {
	u.ResetTokenHash = &hash
	u.ResetExpiresAt = &expires
}

func (u *User) ClearResetToken() {
	u.ResetTokenHash = nil
	u.ResetExpiresAt = nil
}
