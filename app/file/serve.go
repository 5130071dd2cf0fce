package file

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"files-api/internal"
	"files-api/internal/model"
	"files-api/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Serve streams a record's raw bytes. Private records answer 404 to
// anyone but their owner so their existence stays hidden. A size query
// of 100, 250 or 500 substitutes the matching thumbnail.
func Serve(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fileID := c.Param("id")

	var file model.File

	err := d.DB.
		Where("id = ?", fileID).
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

	if !file.IsPublic {
		token := c.GetHeader("X-Token")
		if token == "" {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Not found",
				"requestID": requestID,
			})
			return
		}

		requester, err := d.Sessions.Resolve(c.Request.Context(), token)
		if err != nil || requester != file.UserID {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Not found",
				"requestID": requestID,
			})
			return
		}
	}

	if file.IsFolder() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "A folder doesn't have content",
			"requestID": requestID,
		})
		return
	}

	ref := file.LocalPath

	// Unknown size values fall back to the original content
	if size, err := strconv.Atoi(c.Query("size")); err == nil && (size == 100 || size == 250 || size == 500) {
		ref = storage.ThumbRef(file.LocalPath, size)
		if !d.Storage.Exists(ref) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Thumbnail not found",
				"requestID": requestID,
			})
			return
		}
	}

	content, err := d.Storage.Read(ref)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
		return
	}

	mimeType := mime.TypeByExtension(filepath.Ext(file.Name))
	if mimeType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid MIME type",
			"requestID": requestID,
		})
		return
	}

	c.Data(http.StatusOK, mimeType, content)
}
