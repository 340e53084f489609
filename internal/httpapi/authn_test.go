package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"articlehub.org/internal/auth"
)

func identityRequest(role auth.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := auth.ContextWithIdentity(req.Context(), auth.Identity{
		ID: "user-1", Email: "a@b.com", Role: role,
	})
	return req.WithContext(ctx)
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	h := RequireRole(auth.RoleAdmin)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("401 must carry WWW-Authenticate")
	}
}

func TestRequireRoleWrongRole(t *testing.T) {
	h := RequireRole(auth.RoleAdmin)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, identityRequest(auth.RoleUser))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	h := RequireRole(auth.RoleAdmin)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, identityRequest(auth.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"plain", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"padded", "  Bearer   abc  ", "abc", false},
		{"empty", "", "", true},
		{"wrong scheme", "Basic dXNlcjpwdw==", "", true},
		{"scheme only", "Bearer ", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}
