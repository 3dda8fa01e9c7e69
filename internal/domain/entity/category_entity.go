package entity

import (
	"strings"
	"time"
)

// Category groups products. Names are unique ignoring case.
type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NormalizeCategoryName(name string) string {
	return strings.TrimSpace(name)
}
