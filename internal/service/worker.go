package service

import (
	"files-api/internal/queue"
	"files-api/internal/storage"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Worker consumes thumbnail jobs from the Redis-backed queue. It runs a
// single handler at a time so jobs are processed in enqueue order.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(db *gorm.DB, st *storage.Local) *Worker {
	srv := asynq.NewServer(queue.RedisOpt(), asynq.Config{
		Concurrency: 1,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeThumbnail, NewThumbnailProcessor(db, st).ProcessTask)

	return &Worker{srv: srv, mux: mux}
}

// Start launches the worker in the background. Job failures are logged by
// asynq and the job is dropped, there is no retry or dead-letter handling.
func (w *Worker) Start() error {
	if err := w.srv.Start(w.mux); err != nil {
		return err
	}

	zap.L().Info("Thumbnail worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
