package internal

import (
	"files-api/internal/queue"
	"files-api/internal/session"
	"files-api/internal/storage"
	"files-api/pkg/security"

	"gorm.io/gorm"
)

// Deps bundles every externally constructed client the handlers need.
// All of them are injected so tests can use fakes.
type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Sessions session.Store
	Queue    queue.Enqueuer
	Storage  *storage.Local
}
