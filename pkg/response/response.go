package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"zhiyu.io/assistantportal/pkg/apperror"
)

// Envelope is the JSON shape the admin frontend expects on every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a standardized error response. Internal errors are logged
// server-side and surfaced with a generic message.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		message = "internal server error"
	}

	c.JSON(code, Envelope{Success: false, Message: message})
}

// BadRequest is for validation failures detected before any store access.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message})
}
