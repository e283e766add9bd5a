package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/backend/internal/model"
)

// Health endpoints sit outside the rate-limited middleware chain so
// probes are never throttled.

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok"})
}
