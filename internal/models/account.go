package models

import (
	"strings"
	"time"
)

// AccountRole represents the available roles for the RBAC system.
type AccountRole string

const (
	RoleStudent AccountRole = "student"
	RoleTeacher AccountRole = "teacher"
	RoleAdmin   AccountRole = "admin"
)

// ValidRole reports whether the raw value names a known account role.
func ValidRole(raw string) bool {
	switch AccountRole(strings.ToLower(raw)) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Account represents a marketplace user stored in the accounts table.
// PasswordHash is nullable: profiles created on a teacher's behalf have no
// credentials until the owner signs up.
type Account struct {
	ID           string      `db:"id" json:"id"`
	FirstName    string      `db:"first_name" json:"firstName"`
	LastName     string      `db:"last_name" json:"lastName"`
	Email        string      `db:"email" json:"email"`
	PasswordHash *string     `db:"password_hash" json:"-"`
	Role         AccountRole `db:"role" json:"accountType"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// FullName joins the name parts the way the legacy schema stored them.
func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// SplitFullName breaks a stored "First Last..." value back into parts.
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
