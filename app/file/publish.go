package file

import (
	"net/http"

	"files-api/internal"
	"files-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publish flips a record public.
func Publish(c *gin.Context, d *internal.Deps) {
	setVisibility(c, d, true)
}

// Unpublish flips a record private again.
func Unpublish(c *gin.Context, d *internal.Deps) {
	setVisibility(c, d, false)
}

// setVisibility updates the visibility flag of an owned record. Setting
// the flag to the value it already has counts as success.
func setVisibility(c *gin.Context, d *internal.Deps, public bool) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fileID := c.Param("id")

	var file model.File

	err := d.DB.
		Where("user_id = ? AND id = ?", userID, fileID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file from db", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.
		Model(&file).
		Update("is_public", public).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update visibility", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file.IsPublic = public

	c.JSON(http.StatusOK, file)
}
