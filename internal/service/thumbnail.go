// Package service contains stuff related to the background processing
// of the application
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"files-api/internal/model"
	"files-api/internal/queue"
	"files-api/internal/storage"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"gorm.io/gorm"
)

// ThumbWidths are the fixed widths generated for every image upload,
// largest first. A failure on one width aborts the remaining ones but
// leaves already written thumbnails in place.
var ThumbWidths = [3]int{500, 250, 100}

type ThumbnailProcessor struct {
	DB      *gorm.DB
	Storage *storage.Local
}

func NewThumbnailProcessor(db *gorm.DB, st *storage.Local) *ThumbnailProcessor {
	return &ThumbnailProcessor{DB: db, Storage: st}
}

// ProcessTask handles a single thumbnail:generate job. Every failure is
// terminal: jobs are never retried, re-uploading the image enqueues a
// fresh one and regenerating simply overwrites existing thumbnails.
func (p *ThumbnailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.ThumbnailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("malformed thumbnail payload, %v: %w", err, asynq.SkipRetry)
	}

	if payload.FileID == "" || payload.UserID == "" {
		return fmt.Errorf("missing fileId or userId: %w", asynq.SkipRetry)
	}

	var file model.File

	err := p.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", payload.FileID, payload.UserID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("file not found: %w", asynq.SkipRetry)
		}

		return fmt.Errorf("failed to fetch file record, %v: %w", err, asynq.SkipRetry)
	}

	if file.Type != model.TypeImage {
		return fmt.Errorf("the file is not an image: %w", asynq.SkipRetry)
	}

	data, err := p.Storage.Read(file.LocalPath)
	if err != nil {
		return fmt.Errorf("file not found locally: %w", asynq.SkipRetry)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image, %v: %w", err, asynq.SkipRetry)
	}

	for _, width := range ThumbWidths {
		thumb, err := makeThumbnail(src, format, width)
		if err != nil {
			return fmt.Errorf("failed to generate %dpx thumbnail, %v: %w", width, err, asynq.SkipRetry)
		}

		ref := storage.ThumbRef(file.LocalPath, width)
		if err := p.Storage.Write(ref, thumb); err != nil {
			return fmt.Errorf("failed to store %dpx thumbnail, %v: %w", width, err, asynq.SkipRetry)
		}
	}

	zap.L().Info("Thumbnails generated",
		zap.String("file_id", file.ID),
		zap.String("user_id", file.UserID))

	return nil
}

// makeThumbnail scales src down to the given width, keeping the aspect
// ratio, and re-encodes it in the original format.
func makeThumbnail(src image.Image, format string, width int) ([]byte, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer

	switch format {
	case "png":
		err := png.Encode(&buf, dst)
		if err != nil {
			return nil, err
		}
	case "gif":
		err := gif.Encode(&buf, dst, nil)
		if err != nil {
			return nil, err
		}
	default:
		err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80})
		if err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
