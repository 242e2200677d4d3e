package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const notRegisteredMessage = "Not registered"

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
	})
}

// notRegistered is the sentinel answer for callers without a live session.
func notRegistered(c *gin.Context) {
	c.String(http.StatusOK, notRegisteredMessage)
}

// writeCanvasText writes a stored canvas as a raw JSON array.
func writeCanvasText(c *gin.Context, text string) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(text))
}

// writeCanvasString writes a stored canvas wrapped in a JSON string, the
// shape drawing clients expect from mutating endpoints.
func writeCanvasString(c *gin.Context, text string) {
	c.JSON(http.StatusOK, text)
}
