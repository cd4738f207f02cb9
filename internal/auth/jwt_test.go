package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewTokenManager("secret", 7*24*time.Hour, 24*time.Hour)

	tok, err := m.GenerateToken(42, "buyer")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "buyer" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokenLifetimeDependsOnRole(t *testing.T) {
	m := NewTokenManager("secret", 7*24*time.Hour, 24*time.Hour)

	expiry := func(role string) time.Duration {
		tok, err := m.GenerateToken(1, role)
		if err != nil {
			t.Fatal(err)
		}
		parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
		if err != nil {
			t.Fatal(err)
		}
		exp, err := parsed.Claims.GetExpirationTime()
		if err != nil {
			t.Fatal(err)
		}
		return time.Until(exp.Time)
	}

	if d := expiry("seller"); d < 6*24*time.Hour || d > 7*24*time.Hour {
		t.Errorf("seller token lifetime = %v, want ~7 days", d)
	}
	if d := expiry("admin"); d < 23*time.Hour || d > 24*time.Hour {
		t.Errorf("admin token lifetime = %v, want ~1 day", d)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	a := NewTokenManager("one", time.Hour, time.Hour)
	b := NewTokenManager("two", time.Hour, time.Hour)

	tok, _ := a.GenerateToken(1, "buyer")
	if _, err := b.ValidateToken(tok); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, time.Hour)
	claims := jwt.MapClaims{"sub": 1, "role": "buyer", "exp": time.Now().Add(-time.Minute).Unix()}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

	if _, err := m.ValidateToken(tok); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestValidateRequiresRole(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, time.Hour)
	claims := jwt.MapClaims{"sub": 1, "exp": time.Now().Add(time.Hour).Unix()}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

	if _, err := m.ValidateToken(tok); err == nil {
		t.Fatal("token without role was accepted")
	}
}
