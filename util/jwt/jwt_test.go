package jwt_test

import (
	"testing"

	jwtutil "librarycatalog/util/jwt"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssue_Claims(t *testing.T) {
	tok, err := jwtutil.Issue("test-secret", 42, "librarian", 24)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		t.Fatalf("parse error: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); int64(sub) != 42 {
		t.Fatalf("sub = %v; want 42", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "librarian" {
		t.Fatalf("role = %v; want librarian", claims["role"])
	}
	if _, ok := claims["exp"].(float64); !ok {
		t.Fatal("expected an exp claim")
	}
}

func TestIssue_WrongSecretRejected(t *testing.T) {
	tok, err := jwtutil.Issue("test-secret", 42, "member", 24)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatal("expected signature verification to fail")
	}
}
