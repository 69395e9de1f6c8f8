package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// forgeToken signs admin claims with an attacker-chosen key.
func forgeToken(t *testing.T, key []byte) string {
	t.Helper()
	now := time.Now()
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			Subject:   "admin",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestAuthManager_EmptySecret(t *testing.T) {
	auth := NewAuthManager("", false, time.Minute)

	t.Run("refuses to mint", func(t *testing.T) {
		if _, err := auth.Mint(httptest.NewRecorder()); err == nil {
			t.Fatal("expected minting to fail without a secret")
		}
	})

	t.Run("rejects a token signed with an empty key", func(t *testing.T) {
		// HS256 verification against an empty key would accept this.
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+forgeToken(t, []byte("")))
		if _, err := auth.ParseFromRequest(req); err == nil {
			t.Fatal("expected the forged token rejected")
		}
	})
}

func TestAuthManager_WrongKeyRejected(t *testing.T) {
	auth := NewAuthManager("real-secret", false, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+forgeToken(t, []byte("guessed-secret")))
	if _, err := auth.ParseFromRequest(req); err == nil {
		t.Fatal("expected a token signed with the wrong key rejected")
	}
}

func TestAuthMiddleware_EmptySecretManager(t *testing.T) {
	env := newTestEnv(t)
	env.srv.auth = NewAuthManager("", false, time.Minute)

	rec := env.do(t, http.MethodGet, "/api/v1/stats", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+forgeToken(t, []byte("")))
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a forged token, got %d", rec.Code)
	}
}
