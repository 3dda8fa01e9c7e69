package entity

// Role is the authorization level stored on a user row.
// Read fresh on every authenticated request so downgrades apply immediately.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
