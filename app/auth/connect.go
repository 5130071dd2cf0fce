// Package auth implements session token issuance and revocation.
package auth

import (
	"net/http"
	"time"

	"files-api/internal"
	"files-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Connect exchanges basic-auth credentials for a fresh session token.
// Wrong password and unknown email are indistinguishable to the caller.
func Connect(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	email, password, ok := c.Request.BasicAuth()
	if !ok || email == "" || password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	if err := d.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	ok, err := d.Argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	token := uuid.NewString()
	ttl := time.Duration(viper.GetInt("session.ttl_hours")) * time.Hour

	if err := d.Sessions.Create(c.Request.Context(), token, user.ID, ttl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
