package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes 200 with {"success": true} merged with data.
func Success(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error writes {"success": false, "message": message} with the given status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
