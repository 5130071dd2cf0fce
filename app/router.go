// Package app wires the HTTP surface together
package app

import (
	"fmt"
	"time"

	"files-api/app/auth"
	"files-api/app/file"
	"files-api/app/root"
	"files-api/app/user"
	"files-api/db"
	"files-api/internal"
	"files-api/internal/queue"
	"files-api/internal/service"
	"files-api/internal/session"
	"files-api/internal/storage"
	"files-api/pkg/middleware"
	"files-api/pkg/security"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{
		Argon:    security.New(),
		Sessions: session.NewRedisStore(),
		Queue:    queue.NewAsynqEnqueuer(),
		Storage:  storage.NewLocal(viper.GetString("storage.folder_path")),
	}

	gdb, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}
	d.DB = gdb

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Token"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	sessionAuth := middleware.NewAuthMiddleware(d.Sessions)
	maxUploadSize := viper.GetInt64("upload.max_size")

	// GET /status			-> Liveness of redis and the database
	router.GET("/status", func(c *gin.Context) { root.Status(c, d) })

	// GET /stats			-> User and file counts
	router.GET("/stats", func(c *gin.Context) { root.Stats(c, d) })

	// GET /connect			-> Exchanges basic auth for a session token
	router.GET("/connect", func(c *gin.Context) { auth.Connect(c, d) })

	// GET /disconnect		-> Destroys the session token
	router.GET("/disconnect", func(c *gin.Context) { auth.Disconnect(c, d) })

	u := router.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /users 		-> Registers a new user
		u.POST("", func(c *gin.Context) { user.Register(c, d) })

		// GET /users/me 	-> Returns the account behind the token
		u.GET("/me", sessionAuth, func(c *gin.Context) { user.Fetch(c, d) })
	}

	f := router.Group("/files")
	{
		// POST /files		-> Uploads a new file, folder or image
		f.POST("", sessionAuth, middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { file.Upload(c, d) })

		// GET /files		-> Lists the user's files under a parent
		f.GET("", sessionAuth, func(c *gin.Context) { file.FetchBulk(c, d) })

		// GET /files/:id	-> Returns a record the user owns
		f.GET("/:id", sessionAuth, func(c *gin.Context) { file.Fetch(c, d) })

		// PUT /files/:id/publish   -> Makes a record public
		f.PUT("/:id/publish", sessionAuth, func(c *gin.Context) { file.Publish(c, d) })

		// PUT /files/:id/unpublish -> Makes a record private
		f.PUT("/:id/unpublish", sessionAuth, func(c *gin.Context) { file.Unpublish(c, d) })

		// GET /files/:id/data	-> Serves raw content, token optional
		f.GET("/:id/data", func(c *gin.Context) { file.Serve(c, d) })
	}

	// Start the thumbnail consumer next to the HTTP server
	if err := service.NewWorker(d.DB, d.Storage).Start(); err != nil {
		return nil, fmt.Errorf("failed to start thumbnail worker, %w", err)
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
