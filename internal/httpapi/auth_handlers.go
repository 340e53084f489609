package httpapi

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"articlehub.org/internal/audit"
	"articlehub.org/internal/auth"
	"articlehub.org/internal/obs"
)

const (
	accessCookie  = "access-token"
	refreshCookie = "refresh-token"

	minPasswordLen = 8
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := a.sessions.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		obs.ObserveLogin("rate_limited")
		_ = audit.LogEvent(r.Context(), "auth.login.rate_limited", map[string]any{"email": req.Email})
		w.Header().Set("Retry-After", strconv.Itoa(15*60))
		writeError(w, r, http.StatusTooManyRequests,
			"too many login attempts, try again in 15 minutes")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		obs.ObserveLogin("invalid")
		_ = audit.LogEvent(r.Context(), "auth.login.denied", map[string]any{"email": req.Email})
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		obs.ObserveLogin("error")
		obs.LogRequest(map[string]any{
			"level": "error", "msg": "login failed", "error": err.Error(),
			"request_id": RequestIDFromContext(r.Context()),
		})
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	obs.ObserveLogin("ok")
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{"user_id": session.Identity.ID})

	a.setAuthCookies(w, session.Tokens)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    session.Identity,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	a.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "logout successful"})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	token := ""
	if c, err := r.Cookie(refreshCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		writeError(w, r, http.StatusBadRequest, "refresh token required")
		return
	}

	access, err := a.sessions.Refresh(r.Context(), token)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		obs.ObserveRefresh("invalid")
		writeError(w, r, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	case err != nil:
		obs.ObserveRefresh("error")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	obs.ObserveRefresh("ok")
	_ = audit.LogEvent(r.Context(), "auth.refresh", nil)
	a.setAccessCookie(w, access)
	writeJSON(w, http.StatusOK, map[string]any{"accessToken": access})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	token := accessTokenFromRequest(r)
	if token == "" {
		writeError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}
	identity, err := a.sessions.Identify(token)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid or expired access token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": identity})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid email format")
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	user, err := a.sessions.Register(r.Context(), req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, auth.ErrAlreadyExists):
		writeError(w, r, http.StatusConflict, "email already registered")
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{"user_id": user.ID})
	writeJSON(w, http.StatusCreated, map[string]any{
		"user": auth.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}

// --- cookie plumbing ---

func (a *API) setAuthCookies(w http.ResponseWriter, pair auth.TokenPair) {
	a.setAccessCookie(w, pair.AccessToken)
	http.SetCookie(w, a.authCookie(refreshCookie, pair.RefreshToken,
		int(a.sessions.Tokens().RefreshTTL().Seconds())))
}

func (a *API) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, a.authCookie(accessCookie, token,
		int(a.sessions.Tokens().AccessTTL().Seconds())))
}

func (a *API) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, a.authCookie(accessCookie, "", -1))
	http.SetCookie(w, a.authCookie(refreshCookie, "", -1))
}

func (a *API) authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}
