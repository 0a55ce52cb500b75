package handlers

import (
	"net/http"

	"sms-portal/internal/models"
	"sms-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeactivateLapsedResponse represents the response for DeactivateLapsedSocieties
type DeactivateLapsedResponse struct {
	Message     string `json:"message"`
	Deactivated int64  `json:"deactivated"`
}

// SendEmailResponse represents the response for SendEmail
type SendEmailResponse struct {
	Message string `json:"message"`
	Queued  int    `json:"queued"`
}

// Dashboard godoc
// @Summary Admin dashboard counters
// @Tags admin
// @Produce  json
// @Success 200 {object} service.Dashboard
// @Failure 401 {object} models.SimpleMessageResponse
// @Router /admin/dashboard [get]
func Dashboard(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	d, err := svc.Dashboard(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

// PendingApprovals godoc
// @Summary Applications of every kind waiting on the signed-in admin
// @Description Deans only see their own faculty. The student service division never has pending items.
// @Tags admin
// @Produce  json
// @Success 200 {array} models.ApprovalItem
// @Failure 401 {object} models.SimpleMessageResponse
// @Router /admin/pending-approvals [get]
func PendingApprovals(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	items, err := svc.PendingItems(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list pending approvals")
		return
	}
	c.JSON(http.StatusOK, items)
}

// AdminSocieties godoc
// @Summary Page through societies
// @Tags admin
// @Produce  json
// @Param   year   query int    false "Year"
// @Param   status query string false "ACTIVE, INACTIVE or PENDING"
// @Param   page   query int    false "Zero-based page"
// @Param   size   query int    false "Page size"
// @Success 200 {object} models.Page[models.Society]
// @Router /admin/societies [get]
func AdminSocieties(c *gin.Context) {
	page, err := svc.AdminSocieties(c.Request.Context(), queryInt(c, "year"), c.Query("status"), pageRequest(c))
	if err != nil {
		respondError(c, err, "Failed to list societies")
		return
	}
	c.JSON(http.StatusOK, page)
}

// ActivityLogs godoc
// @Summary Audit trail
// @Tags admin
// @Produce  json
// @Param   user   query string false "User name contains"
// @Param   action query string false "Action contains"
// @Param   page   query int    false "Zero-based page"
// @Param   size   query int    false "Page size"
// @Success 200 {object} models.Page[models.ActivityLog]
// @Router /admin/activity-logs [get]
func ActivityLogs(c *gin.Context) {
	page, err := svc.ActivityLogs(c.Request.Context(), c.Query("user"), c.Query("action"), pageRequest(c))
	if err != nil {
		respondError(c, err, "Failed to list activity logs")
		return
	}
	c.JSON(http.StatusOK, page)
}

// SendEmail godoc
// @Summary Email a list of recipients
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   request body service.BulkEmail true "Message"
// @Success 200 {object} handlers.SendEmailResponse
// @Failure 400 {object} handlers.ValidationErrorResponse
// @Router /admin/send-email [post]
func SendEmail(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req service.BulkEmail
	if !bindJSON(c, &req) {
		return
	}
	n, err := svc.SendBulkEmail(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to send email")
		return
	}
	RequestLogger(c).Info("Bulk email queued", zap.Int("recipients", n))
	c.JSON(http.StatusOK, SendEmailResponse{Message: "Email queued", Queued: n})
}

// AddAdminUser godoc
// @Summary Create an admin account
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   request body service.NewAdminUser true "Admin"
// @Success 201 {object} models.AdminUser
// @Failure 400 {object} handlers.ValidationErrorResponse
// @Failure 409 {object} models.SimpleMessageResponse "Email already in use"
// @Router /admin/ar/manage-admin/add [post]
func AddAdminUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req service.NewAdminUser
	if !bindJSON(c, &req) {
		return
	}
	user, err := svc.CreateAdminUser(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create admin")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ToggleAdminActive godoc
// @Summary Activate or deactivate an admin account
// @Tags admin
// @Produce  json
// @Param   id query int true "Admin ID"
// @Success 200 {object} models.AdminUser
// @Failure 403 {object} models.SimpleMessageResponse "Cannot deactivate yourself"
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /admin/ar/manage-admin/toggle-active [post]
func ToggleAdminActive(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := svc.ToggleAdminActive(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "Failed to update admin")
		return
	}
	RequestLogger(c).Info("Admin active flag toggled", zap.String("email", user.Email), zap.Bool("active", user.IsActive))
	c.JSON(http.StatusOK, user)
}

// RemoveAdminUser godoc
// @Summary Delete an admin account
// @Tags admin
// @Produce  json
// @Param   email query string true "Admin email"
// @Success 200 {object} models.SimpleMessageResponse
// @Failure 403 {object} models.SimpleMessageResponse "Cannot remove yourself"
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /admin/ar/manage-admin/remove [post]
func RemoveAdminUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	addr := c.Query("email")
	if err := svc.RemoveAdminUser(c.Request.Context(), actor, addr); err != nil {
		respondError(c, err, "Failed to remove admin")
		return
	}
	c.JSON(http.StatusOK, models.SimpleMessageResponse{Message: "Admin removed"})
}

// ListAdminUsers godoc
// @Summary Every admin account
// @Tags admin
// @Produce  json
// @Success 200 {array} models.AdminUser
// @Router /admin/ar/manage-admin/all [get]
func ListAdminUsers(c *gin.Context) {
	users, err := svc.AdminUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list admins")
		return
	}
	c.JSON(http.StatusOK, users)
}

// MonitoringApplications godoc
// @Summary Every application of every kind, newest first
// @Tags admin
// @Produce  json
// @Success 200 {array} models.ApprovalItem
// @Router /admin/ss/monitoring-applications [get]
func MonitoringApplications(c *gin.Context) {
	items, err := svc.MonitoringItems(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, items)
}

// DeactivateLapsedSocieties godoc
// @Summary Mark societies that missed their renewal inactive
// @Description Sets every ACTIVE society from a previous year to INACTIVE. The same job runs on the lapse cron schedule.
// @Tags admin
// @Produce  json
// @Success 200 {object} handlers.DeactivateLapsedResponse
// @Failure 500 {object} models.SimpleMessageResponse "Failed to deactivate lapsed societies"
// @Router /admin/ar/deactivate-lapsed [post]
func DeactivateLapsedSocieties(c *gin.Context) {
	reqLogger := RequestLogger(c)

	n, err := svc.DeactivateLapsed(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to deactivate lapsed societies")
		return
	}

	reqLogger.Info("Lapsed societies deactivated", zap.Int64("deactivated", n))
	c.JSON(http.StatusOK, DeactivateLapsedResponse{
		Message:     "Lapsed societies deactivated",
		Deactivated: n,
	})
}
