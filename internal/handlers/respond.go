// Package handlers contains the HTTP handlers of the vacation API.
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vacationManagement/internal/apperr"
)

// respondMessage writes the uniform {"message": ...} body.
func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// respondError translates err into a status code and message. Errors that are not
// *apperr.Error are logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		respondMessage(c, e.HTTPStatus(), e.Message)
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	respondMessage(c, http.StatusInternalServerError, "Internal server error")
}
