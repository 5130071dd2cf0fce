package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"files-api/internal"
	"files-api/internal/model"
	"files-api/internal/session"
	"files-api/pkg/middleware"
	"files-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
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

type env struct {
	router   *gin.Engine
	deps     *internal.Deps
	sessions *fakeSessions
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("session.ttl_hours", 24)

	db, err := gorm.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.User{}, model.File{}))

	sessions := &fakeSessions{m: map[string]string{}}

	d := &internal.Deps{
		DB:       db,
		Argon:    security.New(),
		Sessions: sessions,
	}

	router := gin.New()
	router.Use(middleware.NewRequestIDMiddleware())
	router.GET("/connect", func(c *gin.Context) { Connect(c, d) })
	router.GET("/disconnect", func(c *gin.Context) { Disconnect(c, d) })

	return &env{router: router, deps: d, sessions: sessions}
}

func (e *env) addUser(t *testing.T, id, email, password string) {
	t.Helper()

	hash, err := e.deps.Argon.GenerateFromPassword(password)
	require.NoError(t, err)

	require.NoError(t, e.deps.DB.Create(&model.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().Unix(),
	}).Error)
}

func basicAuth(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestConnect(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "user1", "bob@dylan.com", "toto1234")

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/connect", nil)
		req.Header.Set("Authorization", basicAuth("bob@dylan.com", "toto1234"))
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.NotEmpty(t, body.Token)

		assert.Equal(t, "user1", e.sessions.m[body.Token])
	})

	t.Run("two logins give distinct sessions", func(t *testing.T) {
		tokens := map[string]bool{}

		for range 2 {
			req := httptest.NewRequest(http.MethodGet, "/connect", nil)
			req.Header.Set("Authorization", basicAuth("bob@dylan.com", "toto1234"))
			rr := httptest.NewRecorder()
			e.router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)

			var body struct {
				Token string `json:"token"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			tokens[body.Token] = true
		}

		assert.Len(t, tokens, 2)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/connect", nil)
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/connect", nil)
		req.Header.Set("Authorization", basicAuth("bob@dylan.com", "wrong"))
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/connect", nil)
		req.Header.Set("Authorization", basicAuth("nobody@dylan.com", "toto1234"))
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestDisconnect(t *testing.T) {
	e := newEnv(t)
	e.sessions.m["tok"] = "user1"

	t.Run("destroys the session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/disconnect", nil)
		req.Header.Set("X-Token", "tok")
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.NotContains(t, e.sessions.m, "tok")
	})

	t.Run("second logout still succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/disconnect", nil)
		req.Header.Set("X-Token", "tok")
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("missing token header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/disconnect", nil)
		rr := httptest.NewRecorder()
		e.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
