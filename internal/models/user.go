package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleTeacher   UserRole = "teacher"
	RoleStudent   UserRole = "student"
	RolePrincipal UserRole = "principal"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleTeacher, RoleStudent, RolePrincipal:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	ClassSection *string   `db:"class_section" json:"class_section,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentSummary is the trimmed projection teachers use when picking assignees.
type StudentSummary struct {
	ID           string `db:"id" json:"id"`
	FullName     string `db:"full_name" json:"full_name"`
	Email        string `db:"email" json:"email"`
	ClassSection string `db:"class_section" json:"class_section"`
}
