package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/pkg/helpers"
)

type adminSeed struct {
	Email    string
	Name     string
	Password string
	Phone    string
}

func (s adminSeed) validate() error {
	if entity.NormalizeEmail(s.Email) == "" || !strings.Contains(s.Email, "@") {
		return fmt.Errorf("a valid --email is required")
	}
	if len(s.Password) < 6 {
		return fmt.Errorf("--password must be at least 6 characters")
	}
	return nil
}

const upsertAdmin = `
	INSERT INTO users (email, name, phone, password_hash, role, is_verified)
	VALUES ($1, $2, $3, $4, 'admin', TRUE)
	ON CONFLICT ((lower(email))) DO UPDATE
	SET role = 'admin', is_verified = TRUE, password_hash = EXCLUDED.password_hash, updated_at = now()
	RETURNING id`

// seedAdmin creates a verified admin, or promotes and re-passwords an
// existing account with the same email.
func seedAdmin(ctx context.Context, db *sql.DB, s adminSeed) (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}
	hash, err := helpers.HashPassword(s.Password)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = "Administrator"
	}
	var id string
	if err := db.QueryRowContext(ctx, upsertAdmin, entity.NormalizeEmail(s.Email), name, s.Phone, hash).Scan(&id); err != nil {
		return "", fmt.Errorf("seed admin: %w", err)
	}
	return id, nil
}
