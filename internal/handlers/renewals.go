package handlers

import (
	"net/http"
	"strings"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
	"sms-portal/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubmitRenewal godoc
// @Summary Apply to renew an existing society
// @Description Files a renewal for the current year unless renewalYear is given. Officials left blank keep their previous values on approval.
// @Tags renewals
// @Accept  json
// @Produce  json
// @Param   request body models.SocietyRenewal true "Renewal"
// @Success 201 {object} handlers.SubmissionResponse
// @Failure 400 {object} handlers.ValidationErrorResponse
// @Failure 404 {object} models.SimpleMessageResponse "Society not found"
// @Failure 409 {object} models.SimpleMessageResponse "Renewal already submitted for this year"
// @Router /renewals/submit [post]
func SubmitRenewal(c *gin.Context) {
	var req models.SocietyRenewal
	if !bindJSON(c, &req) {
		return
	}
	ren, err := svc.SubmitRenewal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to submit renewal")
		return
	}
	RequestLogger(c).Info("Society renewal submitted", zap.Uint("id", ren.ID), zap.String("society", ren.SocietyName))
	c.JSON(http.StatusCreated, SubmissionResponse{
		Message: "Renewal submitted successfully",
		ID:      ren.ID,
		Status:  string(ren.Status),
	})
}

// GetRenewal godoc
// @Summary Get a renewal
// @Tags renewals
// @Produce  json
// @Param   id path int true "Renewal ID"
// @Success 200 {object} models.SocietyRenewal
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /renewals/{id} [get]
func GetRenewal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ren, err := svc.GetRenewal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load renewal")
		return
	}
	c.JSON(http.StatusOK, ren)
}

// GetRenewalStatistics godoc
// @Summary Renewal counts
// @Tags renewals
// @Produce  json
// @Success 200 {object} service.RenewalStatistics
// @Router /renewals/statistics [get]
func GetRenewalStatistics(c *gin.Context) {
	stats, err := svc.RenewalStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DownloadRenewal godoc
// @Summary Renewal document
// @Tags renewals
// @Produce  html
// @Param   id        path  int    true  "Renewal ID"
// @Param   expiry    query int    false "Signed link expiry"
// @Param   signature query string false "Signed link signature"
// @Success 200 {string} string "HTML document"
// @Failure 403 {object} models.SimpleMessageResponse "Invalid or expired link"
// @Router /renewals/download/{id} [get]
func DownloadRenewal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, err := svc.RenewalDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to render renewal")
		return
	}
	sendDocument(c, "renewal-"+c.Param("id"), doc)
}

// ListPendingRenewals godoc
// @Summary Renewals waiting on the signed-in admin
// @Tags renewals
// @Produce  json
// @Success 200 {array} models.SocietyRenewal
// @Failure 401 {object} models.SimpleMessageResponse
// @Router /renewals/admin/pending [get]
func ListPendingRenewals(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	rows, err := svc.PendingRenewals(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list pending renewals")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListAllRenewals godoc
// @Summary Page through every renewal
// @Tags renewals
// @Produce  json
// @Param   year   query int    false "Renewal year"
// @Param   status query string false "Workflow status"
// @Param   page   query int    false "Zero-based page"
// @Param   size   query int    false "Page size"
// @Success 200 {object} models.Page[models.SocietyRenewal]
// @Failure 400 {object} models.SimpleMessageResponse "Invalid status"
// @Router /renewals/admin/all [get]
func ListAllRenewals(c *gin.Context) {
	f := service.ApplicationFilter{Year: queryInt(c, "year")}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && !strings.EqualFold(raw, "all") {
		st, err := workflow.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.SimpleMessageResponse{Error: "Invalid status: " + raw})
			return
		}
		f.Status = st
	}
	page, err := svc.ListRenewals(c.Request.Context(), f, pageRequest(c))
	if err != nil {
		respondError(c, err, "Failed to list renewals")
		return
	}
	c.JSON(http.StatusOK, page)
}
