package file

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"files-api/internal"
	"files-api/internal/model"
	"files-api/internal/queue"
	"files-api/internal/session"
	"files-api/internal/storage"
	"files-api/pkg/middleware"
	"files-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeSessions struct {
	m map[string]string
}

func (f *fakeSessions) Create(_ context.Context, token, userID string, _ time.Duration) error {
	f.m[token] = userID
	return nil
}

func (f *fakeSessions) Resolve(_ context.Context, token string) (string, error) {
	userID, ok := f.m[token]
	if !ok {
		return "", session.ErrNoSession
	}
	return userID, nil
}

func (f *fakeSessions) Destroy(_ context.Context, token string) error {
	delete(f.m, token)
	return nil
}

func (f *fakeSessions) Ping(context.Context) error { return nil }

type fakeQueue struct {
	jobs []queue.ThumbnailPayload
	err  error
}

func (f *fakeQueue) EnqueueThumbnail(_ context.Context, userID, fileID string) error {
	if f.err != nil {
		return f.err
	}

	f.jobs = append(f.jobs, queue.ThumbnailPayload{UserID: userID, FileID: fileID})
	return nil
}

type env struct {
	router   *gin.Engine
	deps     *internal.Deps
	sessions *fakeSessions
	queue    *fakeQueue
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("files.page_size", 20)

	db, err := gorm.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.User{}, model.File{}))

	sessions := &fakeSessions{m: map[string]string{}}
	q := &fakeQueue{}

	d := &internal.Deps{
		DB:       db,
		Argon:    security.New(),
		Sessions: sessions,
		Queue:    q,
		Storage:  storage.NewLocal(t.TempDir()),
	}

	router := gin.New()
	router.Use(middleware.NewRequestIDMiddleware())

	sessionAuth := middleware.NewAuthMiddleware(sessions)

	router.POST("/files", sessionAuth, func(c *gin.Context) { Upload(c, d) })
	router.GET("/files", sessionAuth, func(c *gin.Context) { FetchBulk(c, d) })
	router.GET("/files/:id", sessionAuth, func(c *gin.Context) { Fetch(c, d) })
	router.PUT("/files/:id/publish", sessionAuth, func(c *gin.Context) { Publish(c, d) })
	router.PUT("/files/:id/unpublish", sessionAuth, func(c *gin.Context) { Unpublish(c, d) })
	router.GET("/files/:id/data", func(c *gin.Context) { Serve(c, d) })

	return &env{router: router, deps: d, sessions: sessions, queue: q}
}

// login registers a fake session and returns its token.
func (e *env) login(userID string) string {
	token := "token-" + userID
	e.sessions.m[token] = userID
	return token
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	return rr
}

func decodeRecord(t *testing.T, rr *httptest.ResponseRecorder) model.File {
	t.Helper()

	var f model.File
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &f))

	return f
}
