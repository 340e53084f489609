package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"articlehub.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "

	adminPrefix    = "/admin/"
	adminLoginPath = "/admin/login"
)

// withAuth decodes the caller identity from the access-token cookie (or a
// bearer header for non-browser clients) and attaches it to the context.
// Requests without a valid token pass through unauthenticated; the gates
// decide what that means per route.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := accessTokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.sessions.Identify(token)
		if err != nil {
			// Invalid token is treated the same as no token. The admin
			// gate additionally clears the stale cookie.
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.ContextWithIdentity(r.Context(), identity)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminGate enforces the single authorization rule: everything under /admin/
// except the login page requires a valid access token with role ADMIN.
// Browsers get a redirect, not a JSON error.
func (a *API) adminGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, adminPrefix) || r.URL.Path == adminLoginPath {
			next.ServeHTTP(w, r)
			return
		}

		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			if accessTokenFromRequest(r) != "" {
				// Cookie present but rejected: drop it before redirecting.
				a.clearAuthCookies(w)
			}
			http.Redirect(w, r, adminLoginPath, http.StatusSeeOther)
			return
		}
		if !identity.IsAdmin() {
			http.Redirect(w, r, adminLoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole guards an API route: 401 without an identity, 403 with the
// wrong role.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="articlehub"`)
				writeError(w, r, http.StatusUnauthorized, "authentication required")
				return
			}
			if identity.Role != role {
				w.Header().Set("WWW-Authenticate", `Bearer realm="articlehub"`)
				writeError(w, r, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(accessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return ""
	}
	return token
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
