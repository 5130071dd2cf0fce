package file

import (
	"net/http"
	"strconv"

	"files-api/internal"
	"files-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// FetchBulk lists the requesting user's records under a parent, paginated
// at a fixed page size. Pages are zero-based and pages past the end come
// back as an empty list, not an error.
func FetchBulk(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	parentID := c.DefaultQuery("parentId", model.RootParent)

	pageStr := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		page = 0
	}

	pageSize := viper.GetInt("files.page_size")

	entries := []model.File{}

	err = d.DB.
		Where("user_id = ? AND parent_id = ?", userID, parentID).
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&entries).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to lookup user files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, entries)
}
