package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"vacationManagement/internal/auth"
)

// Session resolves the session token (cookie first, then Authorization: Bearer)
// and stores the Principal in the request context. Requests without a valid
// session continue anonymously.
func Session(resolver auth.Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		p, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				log.Printf("resolve session: %v", err)
			}
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	if token, err := auth.BearerToken(c.GetHeader("Authorization")); err == nil {
		return token
	}
	return ""
}
