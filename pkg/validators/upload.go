package validators

import (
	"errors"

	"files-api/internal/model"
)

// Upload field errors. The messages are part of the HTTP contract so they
// name the offending field explicitly instead of a generic bad-request.
var (
	ErrMissingName = errors.New("Missing name")
	ErrInvalidType = errors.New("Missing or invalid type")
	ErrMissingData = errors.New("Missing data")
)

type UploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
}

// UploadValidator checks the presence and shape of the upload fields.
// Parent resolution is left to the handler since it needs the database.
func UploadValidator(r *UploadRequest) error {
	if r.Name == "" {
		return ErrMissingName
	}

	if !model.ValidType(r.Type) {
		return ErrInvalidType
	}

	if r.Type != model.TypeFolder && r.Data == "" {
		return ErrMissingData
	}

	return nil
}
