package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"vacationManagement/internal/auth"
	"vacationManagement/internal/config"
)

// CookieHelper manages the session cookie.
type CookieHelper struct {
	config config.CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(cfg config.CookieConfig) *CookieHelper {
	if cfg.Name == "" {
		cfg.Name = "hr_session"
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieHelper{config: cfg}
}

// SetSession stores the session token in the cookie.
func (h *CookieHelper) SetSession(c *gin.Context, token string, ttl time.Duration) {
	h.setCookie(c, token, int(ttl.Seconds()))
}

// ClearSession expires the session cookie.
func (h *CookieHelper) ClearSession(c *gin.Context) {
	h.setCookie(c, "", -1)
}

// SessionToken returns the session token from the cookie, falling back to an
// Authorization: Bearer header.
func (h *CookieHelper) SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(h.config.Name); err == nil && token != "" {
		return token
	}
	if token, err := auth.BearerToken(c.GetHeader("Authorization")); err == nil {
		return token
	}
	return ""
}

func (h *CookieHelper) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.config.SameSite)
	c.SetCookie(
		h.config.Name,
		value,
		maxAge,
		h.config.Path,
		h.config.Domain,
		h.config.Secure,
		true,
	)
}
