package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is an authenticated identity together with its resolved role.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the principal holds the read-only admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// UserProfile mirrors a users/{uid} record.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	DisplayName *string   `json:"displayName,omitempty"`
	PhotoURL    *string   `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type IdentityProvider string

const (
	ProviderPassword IdentityProvider = "password"
	ProviderGoogle   IdentityProvider = "google"
)

// Identity links a provider account to a user id. PasswordHash is only set
// for password accounts.
type Identity struct {
	UserID       string
	Provider     IdentityProvider
	Subject      string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SessionRecord is the server-side half of a sign-in. The token itself is
// never stored, only its hash.
type SessionRecord struct {
	TokenHash string
	UserID    string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
