package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCheckPasswordPlaintext(t *testing.T) {
	if !CheckPassword("secret123", "secret123") {
		t.Error("Matching plaintext secret should pass")
	}
	if CheckPassword("wrong", "secret123") {
		t.Error("Wrong secret should not pass")
	}
	if CheckPassword("", "") {
		t.Error("Empty secret should never pass")
	}
}

func TestCheckPasswordBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), 10)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if !CheckPassword("secret123", string(hash)) {
		t.Error("Password should match bcrypt hash")
	}
	if CheckPassword("wrongpassword", string(hash)) {
		t.Error("Wrong password should not match bcrypt hash")
	}
}

func TestSessionToken(t *testing.T) {
	secret := "test-secret-key-12345"

	in := SessionClaims{
		SessionID: "session-1234",
		Username:  "anna",
		Role:      "supervisor",
	}

	tokenString, err := GenerateSessionToken(in, secret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if tokenString == "" {
		t.Error("Token should not be empty")
	}

	claims, err := ValidateSessionToken(tokenString, secret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.SessionID != in.SessionID {
		t.Errorf("Expected session ID %s, got %s", in.SessionID, claims.SessionID)
	}
	if claims.Username != in.Username {
		t.Errorf("Expected username %s, got %s", in.Username, claims.Username)
	}
	if claims.Role != in.Role {
		t.Errorf("Expected role %s, got %s", in.Role, claims.Role)
	}

	if _, err := ValidateSessionToken(tokenString, "wrong-key"); err == nil {
		t.Error("Validation should fail with wrong key")
	}
}
