package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultIssuer     = "articlehub"
	defaultAudience   = "articlehub-web"
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// minSecretLen guards against weak HMAC keys. Enforced at construction
	// so a misconfigured deployment fails at startup, not at first login.
	minSecretLen = 32
)

// accessClaims is the payload of an access token: the full caller identity
// plus the registered claim set.
type accessClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// refreshClaims carries only the user id. A refresh token never grants
// resource access directly; it can only be exchanged for a new access token.
type refreshClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies the signed, time-bounded identity assertions
// used for sessions. Tokens are stateless and self-describing; there is no
// revocation list, so validity is purely signature plus expiry.
type Tokens struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption configures Tokens.
type TokenOption func(*Tokens)

// WithIssuer overrides the iss claim.
func WithIssuer(issuer string) TokenOption {
	return func(t *Tokens) {
		if s := strings.TrimSpace(issuer); s != "" {
			t.issuer = s
		}
	}
}

// WithAudience overrides the aud claim.
func WithAudience(audience string) TokenOption {
	return func(t *Tokens) {
		if s := strings.TrimSpace(audience); s != "" {
			t.audience = s
		}
	}
}

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) TokenOption {
	return func(t *Tokens) {
		if ttl > 0 {
			t.accessTTL = ttl
		}
	}
}

// WithRefreshTTL configures refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) TokenOption {
	return func(t *Tokens) {
		if ttl > 0 {
			t.refreshTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(t *Tokens) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewTokens constructs the issuer/verifier. The secret must be at least 32
// bytes; anything shorter is a configuration error.
func NewTokens(secret string, opts ...TokenOption) (*Tokens, error) {
	if len(secret) < minSecretLen {
		return nil, errors.New("auth: token secret must be at least 32 characters")
	}
	t := &Tokens{
		secret:     []byte(secret),
		issuer:     defaultIssuer,
		audience:   defaultAudience,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// AccessTTL returns the configured access token lifetime. The HTTP layer
// uses it for cookie max-age.
func (t *Tokens) AccessTTL() time.Duration { return t.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (t *Tokens) RefreshTTL() time.Duration { return t.refreshTTL }

// IssueAccess signs a short-lived access token embedding the full identity.
func (t *Tokens) IssueAccess(identity Identity) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.accessTTL)
	claims := accessClaims{
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      string(identity.Role),
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueRefresh signs a long-lived refresh token carrying only the user id.
func (t *Tokens) IssueRefresh(userID string) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.refreshTTL)
	claims := refreshClaims{
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssuePair mints a matched access/refresh token set.
func (t *Tokens) IssuePair(identity Identity) (TokenPair, error) {
	access, accessExp, err := t.IssueAccess(identity)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := t.IssueRefresh(identity.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess validates signature, algorithm, issuer, audience and expiry.
// Every failure collapses into ErrInvalidToken; callers gate on the result
// and must not learn why a token was rejected.
func (t *Tokens) VerifyAccess(token string) (Identity, error) {
	claims := &accessClaims{}
	if err := t.parse(token, claims); err != nil {
		return Identity{}, ErrInvalidToken
	}
	if claims.TokenType != tokenTypeAccess {
		return Identity{}, ErrInvalidToken
	}
	role := Role(claims.Role)
	if strings.TrimSpace(claims.Subject) == "" || !role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  role,
	}, nil
}

// VerifyRefresh validates a refresh token and returns the user id. An access
// token presented here is rejected on the token_type discriminant.
func (t *Tokens) VerifyRefresh(token string) (string, error) {
	claims := &refreshClaims{}
	if err := t.parse(token, claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (t *Tokens) parse(token string, claims jwt.Claims) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(tok *jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return t.now().UTC() }),
	)
	if err != nil {
		return ErrInvalidToken
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
