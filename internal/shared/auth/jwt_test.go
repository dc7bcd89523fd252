package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{
		CompanyID:        "company-1",
		Role:             "hr",
		Name:             "Asha",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != "user-1" || claims.CompanyID != "company-1" || claims.Role != "hr" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := SignJWT(Claims{
		CompanyID: "company-1",
		Role:      "hr",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(expired); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	good, err := SignJWT(Claims{CompanyID: "company-1", Role: "hr", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	t.Setenv("JWT_SECRET", "other-secret")
	if _, err := VerifyJWT(good); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func resetSettings(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		settingsMu.Lock()
		defer settingsMu.Unlock()
		settings.configured, settings.secret, settings.production = false, "", false
	})
}

func TestConfigureRequiresSecretInProduction(t *testing.T) {
	resetSettings(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENV", "")

	if err := Configure("", true); !errors.Is(err, errMissingSecret) {
		t.Fatalf("expected errMissingSecret, got %v", err)
	}
	if err := Configure("from-config", true); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	token, err := SignJWT(Claims{CompanyID: "company-1", Role: "hr", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		CompanyID:        "company-1",
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString([]byte("dev-secret"))
	if err != nil {
		t.Fatalf("sign with dev secret: %v", err)
	}
	if _, err := VerifyJWT(forged); err != ErrInvalidToken {
		t.Fatalf("dev-secret token must be rejected, got %v", err)
	}
	if _, err := VerifyJWT(token); err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
}

func TestConfiguredProductionIgnoresEnvFallback(t *testing.T) {
	resetSettings(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENV", "dev")

	settingsMu.Lock()
	settings.configured, settings.secret, settings.production = true, "", true
	settingsMu.Unlock()
	if _, err := SignJWT(Claims{CompanyID: "company-1", Role: "hr", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}); !errors.Is(err, errMissingSecret) {
		t.Fatalf("expected errMissingSecret, got %v", err)
	}
}

func TestPasswordHelpers(t *testing.T) {
	if err := ValidatePassword("short1"); err != ErrWeakPassword {
		t.Fatalf("expected weak password error, got %v", err)
	}
	if err := ValidatePassword("longenough"); err != ErrWeakPassword {
		t.Fatalf("expected digit requirement, got %v", err)
	}
	if err := ValidatePassword("longenough1"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}

	hash, err := HashPassword("longenough1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "longenough1") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected mismatch")
	}
}
