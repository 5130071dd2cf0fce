// Package root holds the service-level endpoints.
package root

import (
	"net/http"

	"files-api/internal"

	"github.com/gin-gonic/gin"
)

// Status reports liveness of the two backing stores. A store being down
// flips its flag to false instead of failing the request.
func Status(c *gin.Context, d *internal.Deps) {
	dbAlive := false
	if sqlDB, err := d.DB.DB(); err == nil {
		dbAlive = sqlDB.PingContext(c.Request.Context()) == nil
	}

	redisAlive := d.Sessions.Ping(c.Request.Context()) == nil

	c.JSON(http.StatusOK, gin.H{
		"redis": redisAlive,
		"db":    dbAlive,
	})
}
