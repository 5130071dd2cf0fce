package auth

import (
	"net/http"

	"files-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Disconnect destroys the session named by the X-Token header. Destroying
// an already absent session still returns 204, so logout is idempotent.
func Disconnect(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token := c.GetHeader("X-Token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	if err := d.Sessions.Destroy(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to destroy session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusNoContent)
}
