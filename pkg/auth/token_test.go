package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

const testSubject = "665f1c2e8b3a4d0012ab34cd"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "accounts-service",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, testSubject)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != testSubject || claims.Subject != testSubject {
		t.Fatalf("expected subject %s, got id=%s sub=%s", testSubject, claims.UserID, claims.Subject)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenValidatesInput(t *testing.T) {
	now := time.Now()

	if _, err := MintAccessToken(config.JWTConfig{ExpirationMinutes: 10}, now, testSubject); err == nil {
		t.Fatal("expected missing secret to fail")
	}
	if _, err := MintAccessToken(config.JWTConfig{Secret: "s"}, now, testSubject); err == nil {
		t.Fatal("expected zero ttl to fail")
	}
	if _, err := MintAccessToken(testJWTConfig(), now, "  "); err == nil {
		t.Fatal("expected blank subject to fail")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), testSubject)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	rotated := cfg
	rotated.Secret = "rotated"
	if _, err := ParseAccessToken(rotated, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after secret rotation, got %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := ParseAccessToken(cfg, tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestParseAccessTokenRejectsMalformed(t *testing.T) {
	cfg := testJWTConfig()
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := ParseAccessToken(cfg, raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), testSubject)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), testSubject)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected issuer mismatch to be rejected, got %v", err)
	}
}

func TestParseAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testJWTConfig()
	claims := AccessTokenClaims{
		UserID: testSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testSubject,
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}
}

func TestParseAccessTokenRequiresSubject(t *testing.T) {
	cfg := testJWTConfig()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token without subject to be rejected, got %v", err)
	}
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testJWTConfig())

	token, err := issuer.Issue(testSubject)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	subject, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != testSubject {
		t.Fatalf("expected %s, got %s", testSubject, subject)
	}

	if _, err := issuer.Verify(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
