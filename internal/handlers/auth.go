package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vacationManagement/models"
)

// Authenticator checks credentials and loads the caller's account.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
}

// SessionManager issues and revokes session tokens.
type SessionManager interface {
	Issue(ctx context.Context, u *models.User) (string, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}

// AuthHandler handles login, logout and the current-user endpoint.
type AuthHandler struct {
	users    Authenticator
	sessions SessionManager
	cookies  *CookieHelper
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(users Authenticator, sessions SessionManager, cookies *CookieHelper) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, cookies: cookies}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.sessions.Issue(c.Request.Context(), u)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cookies.SetSession(c, token, h.sessions.TTL())

	c.JSON(http.StatusOK, gin.H{
		"message": "ok",
		"role":    u.Role,
		"name":    u.Name,
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.users.Me(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Logout ends the session. It succeeds even without one.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.cookies.SessionToken(c); token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			log.Printf("logout: %v", err)
		}
	}
	h.cookies.ClearSession(c)
	respondMessage(c, http.StatusOK, "Logged out")
}
