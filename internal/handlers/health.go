package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is returned by HealthCheck
type HealthResponse struct {
	Status      string `json:"status"`
	Maintenance bool   `json:"maintenance"`
}

// HealthCheck used for status checking the api
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Maintenance: IsMaintenanceMode()})
}
