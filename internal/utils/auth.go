package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CheckPassword compares a supplied secret against the stored one. The
// station user store holds plaintext shared secrets, but entries migrated
// to bcrypt hashes are recognized by their prefix and verified properly.
func CheckPassword(password, stored string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return password != "" && password == stored
}

// SessionClaims is what a station session token carries.
type SessionClaims struct {
	SessionID string
	Username  string
	Role      string
}

// GenerateSessionToken issues an HS256 token for a logged-in station user.
// Shift tokens live 12 hours.
func GenerateSessionToken(c SessionClaims, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sid":      c.SessionID,
		"username": c.Username,
		"role":     c.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken parses and validates a session token.
func ValidateSessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	out := &SessionClaims{}
	if v, ok := claims["sid"].(string); ok {
		out.SessionID = v
	}
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	return out, nil
}
