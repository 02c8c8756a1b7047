package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/security"
	"golang.org/x/crypto/bcrypt"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher := security.NewHasher(testPasswordConfig())

	hash, err := hasher.Hash("very-secure-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "" || hash == "very-secure-password" {
		t.Fatalf("unexpected hash %q", hash)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=32768,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", hash)
	}

	if !hasher.Verify("very-secure-password", hash) {
		t.Fatal("Verify failed for the correct password")
	}
	if hasher.Verify("bogus-password", hash) {
		t.Fatal("Verify returned true for incorrect password")
	}
}

func TestHashUsesFreshSalt(t *testing.T) {
	hasher := security.NewHasher(testPasswordConfig())

	first, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	hasher := security.NewHasher(testPasswordConfig())
	if _, err := hasher.Hash(""); !errors.Is(err, security.ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyMalformedHashReturnsFalse(t *testing.T) {
	hasher := security.NewHasher(testPasswordConfig())

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=32768,t=1,p=1$!!!$aGFzaA",
		"$argon2i$v=19$m=32768,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$2b$10$short",
		"$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=32768,t=4294967295,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=32768,t=1,p=1$c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
	} {
		if hasher.Verify("irrelevant", encoded) {
			t.Fatalf("Verify should be false for %q", encoded)
		}
	}

	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); !errors.Is(err, security.ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if _, err := security.VerifyPassword("x", "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"); !errors.Is(err, security.ErrInvalidHash) {
		t.Fatalf("expected oversized memory to be ErrInvalidHash, got %v", err)
	}
}

func TestIsSupportedHash(t *testing.T) {
	hasher := security.NewHasher(testPasswordConfig())
	argonHash, err := hasher.Hash("pw")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	legacy, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	if !security.IsSupportedHash(argonHash) {
		t.Fatal("expected argon2id hash to be supported")
	}
	if !security.IsSupportedHash(string(legacy)) {
		t.Fatal("expected bcrypt hash to be supported")
	}
	for _, encoded := range []string{"", "secret1", "$2b$10$short", "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"} {
		if security.IsSupportedHash(encoded) {
			t.Fatalf("expected %q to be unsupported", encoded)
		}
	}
}

func TestVerifyAcceptsBcrypt(t *testing.T) {
	hasher := security.NewHasher(testPasswordConfig())

	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	if !hasher.Verify("legacy-pass", string(legacy)) {
		t.Fatal("expected bcrypt hash to verify")
	}
	if hasher.Verify("wrong-pass", string(legacy)) {
		t.Fatal("expected bcrypt mismatch to be false")
	}
}
