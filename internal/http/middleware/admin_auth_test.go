package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func serveAdmin(t *testing.T, secret, authHeader string, next http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/calls/abc/end", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	if next == nil {
		next = func(w http.ResponseWriter, r *http.Request) {}
	}
	AdminJWT(secret)(next).ServeHTTP(rec, req)
	return rec
}

func TestAdminJWTMissingSecret(t *testing.T) {
	rec := serveAdmin(t, "", "Bearer "+signedAdminToken(t, "", jwt.SigningMethodHS256, time.Minute), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAdminJWTMissingHeader(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer "} {
		rec := serveAdmin(t, "secret", header, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected status %d, got %d", header, http.StatusUnauthorized, rec.Code)
		}
	}
}

func TestAdminJWTRejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"wrong secret": signedAdminToken(t, "wrong", jwt.SigningMethodHS256, time.Minute),
		"expired":      signedAdminToken(t, "secret", jwt.SigningMethodHS256, -time.Minute),
		"other alg":    signedAdminToken(t, "secret", jwt.SigningMethodHS512, time.Minute),
		"garbage":      "not.a.token",
	}
	for name, token := range cases {
		rec := serveAdmin(t, "secret", "Bearer "+token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status %d, got %d", name, http.StatusUnauthorized, rec.Code)
		}
	}
}

func TestAdminJWTRequiresExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{Name: "ops"})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec := serveAdmin(t, "secret", "Bearer "+signed, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAdminJWTValidToken(t *testing.T) {
	called := false
	rec := serveAdmin(t, "secret", "bearer "+signedAdminToken(t, "secret", jwt.SigningMethodHS256, 5*time.Minute),
		func(w http.ResponseWriter, r *http.Request) {
			called = true
			claims, ok := AdminClaimsFromContext(r.Context())
			if !ok {
				t.Fatalf("expected admin claims in context")
			}
			if claims.Subject != "operator-1" || claims.Name != "night shift" {
				t.Fatalf("unexpected claims %+v", claims)
			}
			w.WriteHeader(http.StatusOK)
		})

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func signedAdminToken(t *testing.T, secret string, method jwt.SigningMethod, ttl time.Duration) string {
	t.Helper()
	claims := AdminClaims{
		Name: "night shift",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
