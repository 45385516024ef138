package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newswire/internal/db"
)

// GET /health
func healthHandler(c *gin.Context) {
	status := "OK"
	database := "Connected"
	code := http.StatusOK

	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "Error"
		database = "Disconnected"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}
