package handlers

import (
	"net/http"
	"sync"

	"sms-portal/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	maintenanceMode     bool
	maintenanceModeLock sync.RWMutex
)

const maintenanceMessage = "The portal is under maintenance. New applications are not being accepted, please try again later."

func SetMaintenanceMode(on bool) {
	maintenanceModeLock.Lock()
	defer maintenanceModeLock.Unlock()
	maintenanceMode = on
}

func IsMaintenanceMode() bool {
	maintenanceModeLock.RLock()
	defer maintenanceModeLock.RUnlock()
	return maintenanceMode
}

// MaintenanceRequest toggles maintenance mode
type MaintenanceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// MaintenanceResponse reports whether maintenance mode is on
type MaintenanceResponse struct {
	Enabled bool `json:"enabled"`
}

// RejectDuringMaintenance stops public submissions while maintenance mode is on.
// Reads and admin decisions keep working.
func RejectDuringMaintenance() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsMaintenanceMode() {
			RequestLogger(c).Debug("Submission rejected during maintenance", zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.SimpleMessageResponse{Error: maintenanceMessage})
			return
		}
		c.Next()
	}
}

// GetMaintenanceMode godoc
// @Summary Maintenance mode state
// @Tags admin
// @Produce  json
// @Success 200 {object} handlers.MaintenanceResponse
// @Router /admin/ar/maintenance [get]
func GetMaintenanceMode(c *gin.Context) {
	c.JSON(http.StatusOK, MaintenanceResponse{Enabled: IsMaintenanceMode()})
}

// UpdateMaintenanceMode godoc
// @Summary Turn maintenance mode on or off
// @Description While enabled, registrations, renewals and event requests are refused with 503.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   request body handlers.MaintenanceRequest true "State"
// @Success 200 {object} handlers.MaintenanceResponse
// @Failure 400 {object} models.SimpleMessageResponse "Invalid request payload"
// @Router /admin/ar/maintenance [post]
func UpdateMaintenanceMode(c *gin.Context) {
	var req MaintenanceRequest
	if !bindJSON(c, &req) {
		return
	}
	SetMaintenanceMode(*req.Enabled)
	RequestLogger(c).Info("Maintenance mode changed",
		zap.Bool("enabled", *req.Enabled),
		zap.String("by", c.GetString("username")),
	)
	c.JSON(http.StatusOK, MaintenanceResponse{Enabled: *req.Enabled})
}
