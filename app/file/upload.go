// Package file implements the metadata and content endpoints.
package file

import (
	"encoding/base64"
	"net/http"
	"time"

	"files-api/internal"
	"files-api/internal/model"
	"files-api/pkg/validators"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func Upload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data validators.UploadRequest
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.ParentID == "" {
		data.ParentID = model.RootParent
	}

	if err := validators.UploadValidator(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if data.ParentID != model.RootParent {
		var parent model.File

		err := d.DB.Where("id = ?", data.ParentID).First(&parent).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "Parent not found",
					"requestID": requestID,
				})
				return
			}

			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch parent record", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !parent.IsFolder() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Parent is not a folder",
				"requestID": requestID,
			})
			return
		}
	}

	var localPath, mimeType string

	if data.Type != model.TypeFolder {
		content, err := base64.StdEncoding.DecodeString(data.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid data",
				"requestID": requestID,
			})
			return
		}

		localPath = uuid.NewString()

		if err := d.Storage.Write(localPath, content); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to write content", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		mimeType = mimetype.Detect(content).String()
	}

	fileID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate file ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	record := model.File{
		ID:        fileID,
		UserID:    userID,
		Name:      data.Name,
		Type:      data.Type,
		IsPublic:  data.IsPublic,
		ParentID:  data.ParentID,
		LocalPath: localPath,
		MimeType:  mimeType,
		CreatedAt: time.Now().Unix(),
	}

	if err := d.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save file record to db", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The record stays even if the job can't be scheduled. A lost
	// thumbnail only surfaces as 404s on the size= variants.
	if data.Type == model.TypeImage {
		if err := d.Queue.EnqueueThumbnail(c.Request.Context(), userID, record.ID); err != nil {
			zap.L().Error("Failed to enqueue thumbnail job",
				zap.Error(err),
				zap.String("file_id", record.ID),
				zap.String("requestID", requestID))
		}
	}

	c.JSON(http.StatusCreated, record)
}
