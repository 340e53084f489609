package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Service is the session orchestrator. It composes the rate limiter, the
// user store, password verification and the token issuer to answer
// authenticate, refresh and identify requests.
type Service struct {
	users    UserStore
	tokens   *Tokens
	attempts AttemptStore
}

// NewService wires the session orchestrator.
func NewService(users UserStore, tokens *Tokens, attempts AttemptStore) *Service {
	return &Service{users: users, tokens: tokens, attempts: attempts}
}

// Tokens exposes the underlying issuer, mainly so the HTTP layer can derive
// cookie lifetimes from the configured TTLs.
func (s *Service) Tokens() *Tokens { return s.tokens }

// Authenticate validates credentials and mints a token pair. Unknown email
// and wrong password are indistinguishable to the caller; a locked-out
// identifier fails with ErrRateLimited before credentials are checked.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	limited, err := s.attempts.Touch(ctx, email)
	if err != nil {
		return nil, err
	}
	if limited {
		return nil, ErrRateLimited
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			// Burn a hash so unknown email costs as much as wrong password.
			_, _ = HashPassword(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.attempts.Clear(ctx, email); err != nil {
		return nil, err
	}

	identity := identityOf(user)
	pair, err := s.tokens.IssuePair(identity)
	if err != nil {
		return nil, err
	}
	return &Session{Identity: identity, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// record is re-loaded so role or name changes since issuance are reflected,
// and a deleted user cannot refresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		if err == ErrNotFound {
			return "", ErrInvalidToken
		}
		return "", err
	}
	access, _, err := s.tokens.IssueAccess(identityOf(user))
	if err != nil {
		return "", err
	}
	return access, nil
}

// Identify decodes the caller identity from an access token. No store access
// happens here; the embedded claims are trusted for the token's lifetime.
func (s *Service) Identify(accessToken string) (Identity, error) {
	return s.tokens.VerifyAccess(accessToken)
}

// Register creates a USER account with a hashed password.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func identityOf(u *User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
