package root

import (
	"net/http"

	"files-api/internal"
	"files-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stats returns user and file counts. Counts degrade to zero when the
// store can't be reached.
func Stats(c *gin.Context, d *internal.Deps) {
	var users, files int64

	if err := d.DB.Model(model.User{}).Count(&users).Error; err != nil {
		zap.L().Warn("Failed to count users", zap.Error(err))
		users = 0
	}

	if err := d.DB.Model(model.File{}).Count(&files).Error; err != nil {
		zap.L().Warn("Failed to count files", zap.Error(err))
		files = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"files": files,
	})
}
