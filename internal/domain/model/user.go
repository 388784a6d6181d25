package model

import "time"

// Role is the capability set granted to an authenticated user.
type Role string

const (
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r can be assigned to a user.
func (r Role) Valid() bool {
	return r == RoleSeller || r == RoleAdmin
}

// User represents a staff account.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Principal is the caller identity handed to workflows. The zero value is an
// anonymous buyer.
type Principal struct {
	UserID int64
	Role   Role
}

// Is reports whether the principal is authenticated with role r.
func (p Principal) Is(r Role) bool {
	return p.UserID != 0 && p.Role == r
}
