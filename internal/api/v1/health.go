package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /test [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Success: true,
		Message: "API is working",
		Time:    time.Now().UTC(),
	})
}
