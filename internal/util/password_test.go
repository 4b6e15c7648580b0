package util

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	hashed, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Error("hash should be in bcrypt format")
	}

	// empty password should be rejected
	if _, err = HashPassword("", 4); err == nil {
		t.Error("empty password should return an error")
	}

	// same password hashes differently (random salt)
	hashed2, _ := HashPassword(password, 4)
	if hashed == hashed2 {
		t.Error("same password should produce different hashes")
	}
}

func TestHashPasswordOutOfRangeCost(t *testing.T) {
	// a silly cost falls back to the bcrypt default instead of failing
	hashed, err := HashPassword("SomePass789", 99)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !CheckPassword("SomePass789", hashed) {
		t.Error("round trip with fallback cost failed")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password, 4)

	if !CheckPassword(password, hashed) {
		t.Error("correct password should verify")
	}
	if CheckPassword("WrongPass", hashed) {
		t.Error("wrong password should not verify")
	}
	if CheckPassword("", hashed) {
		t.Error("empty password should not verify")
	}
	if CheckPassword(password, "") {
		t.Error("empty hash should not verify")
	}
	if CheckPassword(password, "invalid-format") {
		t.Error("invalid hash format should not verify")
	}
}
