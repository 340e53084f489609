package auth

import "time"

// Role is the coarse authorization tag carried inside access tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a persisted account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the set of claims embedded into an access token. It is what a
// verified token decodes back to; for the token's lifetime it is trusted as
// the current caller identity without a store lookup.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity may pass the administrative gate.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// TokenPair holds a freshly minted access/refresh token set. Tokens are
// stateless; nothing here is persisted.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Session is the result of a successful authentication.
type Session struct {
	Identity Identity
	Tokens   TokenPair
}
