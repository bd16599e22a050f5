package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "railway booking service is running"})
}

// DBCheck reports whether the configured store answers a ping.
func DBCheck(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			respondError(c, http.StatusServiceUnavailable, "store_unavailable", "store is unreachable", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "store connection OK"})
	}
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"message": "Route not found",
		"path":    c.Request.URL.Path,
		"method":  c.Request.Method,
	})
}
