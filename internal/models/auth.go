package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignupRequest holds the fields required to register an account.
type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	AccountType string `json:"accountType" validate:"required"`
}

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued session and account info.
type LoginResponse struct {
	User         AccountInfo `json:"user"`
	SessionToken string      `json:"sessionToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

// SignupResponse echoes the created account.
type SignupResponse struct {
	User AccountInfo `json:"user"`
}

// ResetPasswordRequest replaces a stored credential with a fresh one.
// It is the only path off a legacy (pre-bcrypt) credential.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// AccountInfo describes the authenticated account in responses.
type AccountInfo struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	AccountType AccountRole `json:"accountType"`
}

// Session is a server-tracked bearer session row. The token presented by
// clients is a signed JWT whose jti matches TokenID; deleting the row
// revokes the session regardless of the token's embedded expiry.
type Session struct {
	TokenID   string    `db:"token_id" json:"tokenId"`
	AccountID string    `db:"account_id" json:"accountId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	IPAddress string    `db:"ip_address" json:"-"`
	UserAgent string    `db:"user_agent" json:"-"`
}

// SessionClaims is the JWT payload embedded in session tokens.
type SessionClaims struct {
	AccountID string      `json:"account_id"`
	Role      AccountRole `json:"role"`
	Email     string      `json:"email"`
	jwt.RegisteredClaims
}

// CredentialKind distinguishes stored password formats.
type CredentialKind int

const (
	// CredentialAdaptive is a bcrypt hash, the only format ever written.
	CredentialAdaptive CredentialKind = iota
	// CredentialLegacy is any pre-bcrypt remnant (the old numeric scheme).
	// It is never verified against; the owner must reset their password.
	CredentialLegacy
)

// ClassifyCredential inspects a stored password value. bcrypt hashes carry
// a "$2a$"/"$2b$"/"$2y$" version prefix; everything else is legacy.
func ClassifyCredential(stored string) CredentialKind {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return CredentialAdaptive
	}
	return CredentialLegacy
}
