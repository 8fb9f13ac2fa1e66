package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/auth"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims auth.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestValidateToken(t *testing.T) {
	userID := uuid.New()
	tokenStr := signToken(t, testSecret, auth.Claims{
		UserID: userID,
		Name:   "Dewi",
		Role:   "STAFF",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	claims, err := auth.ValidateToken(testSecret, tokenStr)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Name != "Dewi" {
		t.Errorf("name = %q, want %q", claims.Name, "Dewi")
	}
	if claims.Role != "STAFF" {
		t.Errorf("role = %q, want %q", claims.Role, "STAFF")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	tokenStr := signToken(t, "other-secret", auth.Claims{
		UserID: uuid.New(),
		Role:   "STAFF",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	})

	if _, err := auth.ValidateToken(testSecret, tokenStr); err == nil {
		t.Fatal("expected error for token signed with wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	tokenStr := signToken(t, testSecret, auth.Claims{
		UserID: uuid.New(),
		Role:   "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-16 * time.Minute)),
		},
	})

	if _, err := auth.ValidateToken(testSecret, tokenStr); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := auth.ValidateToken(testSecret, "not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
