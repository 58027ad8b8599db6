package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mbtrace/mbcheckgo/internal/middleware"
	"github.com/mbtrace/mbcheckgo/internal/store"
	"github.com/mbtrace/mbcheckgo/internal/utils"
)

// LoginRequest represents a login request. Badge scanners on the line send
// the shared secret alone; username is optional and must match when given.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// getUsers returns the station user collection
func (r *Router) getUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.store.Users.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Users file not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to read users file")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// login authenticates against the user store and opens a session
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if loginReq.Password == "" {
		respondError(w, http.StatusBadRequest, "Password is required")
		return
	}

	user, err := r.store.Users.Authenticate(loginReq.Username, loginReq.Password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// No user store means the station cannot start sessions at all
			respondError(w, http.StatusServiceUnavailable, "User store unavailable")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to read users file")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Access denied")
		return
	}

	session := r.sessions.Create(*user)

	token, err := utils.GenerateSessionToken(utils.SessionClaims{
		SessionID: session.ID,
		Username:  user.Username,
		Role:      string(user.Role),
	}, r.cfg.JWTSecret)
	if err != nil {
		r.sessions.Drop(session.ID)
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"username": user.Username,
			"role":     string(user.Role),
		},
	})
}

// logout drops the caller's session when a valid token accompanies the call
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	if claims := r.sessionClaims(req); claims != nil {
		r.sessions.Drop(claims.SessionID)
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// sessionClaims extracts claims from middleware context or, for routes
// outside the protected subrouter, directly from the Authorization header.
func (r *Router) sessionClaims(req *http.Request) *utils.SessionClaims {
	if claims := middleware.SessionFromContext(req.Context()); claims != nil {
		return claims
	}
	authHeader := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return nil
	}
	claims, err := utils.ValidateSessionToken(authHeader[len(prefix):], r.cfg.JWTSecret)
	if err != nil {
		return nil
	}
	return claims
}
