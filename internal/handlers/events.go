package handlers

import (
	"net/http"
	"strconv"

	"sms-portal/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ApplicantRequest identifies an office bearer of a society
type ApplicantRequest struct {
	SocietyName string `json:"societyName" binding:"required"`
	Position    string `json:"position" binding:"required"`
	RegNo       string `json:"regNo" binding:"required"`
	Email       string `json:"email" binding:"required"`
}

// RequestEvent godoc
// @Summary Request permission to hold an event
// @Tags events
// @Accept  json
// @Produce  json
// @Param   request body models.EventPermission true "Event"
// @Success 201 {object} handlers.SubmissionResponse
// @Failure 400 {object} handlers.ValidationErrorResponse
// @Failure 404 {object} models.SimpleMessageResponse "Society not found"
// @Router /events/request [post]
func RequestEvent(c *gin.Context) {
	var req models.EventPermission
	if !bindJSON(c, &req) {
		return
	}
	ev, err := svc.RequestEvent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to submit event request")
		return
	}
	RequestLogger(c).Info("Event permission requested",
		zap.Uint("id", ev.ID),
		zap.String("society", ev.SocietyName),
		zap.String("event", ev.EventName),
	)
	c.JSON(http.StatusCreated, SubmissionResponse{
		Message: "Event request submitted successfully",
		ID:      ev.ID,
		Status:  string(ev.Status),
	})
}

// ValidateApplicant godoc
// @Summary Check an applicant against the society's office bearers
// @Tags events
// @Accept  json
// @Produce  json
// @Param   request body handlers.ApplicantRequest true "Applicant"
// @Success 200 {object} service.ApplicantCheck
// @Failure 400 {object} models.SimpleMessageResponse
// @Router /events/validate-applicant [post]
func ValidateApplicant(c *gin.Context) {
	var req ApplicantRequest
	if !bindJSON(c, &req) {
		return
	}
	check, err := svc.ValidateApplicant(c.Request.Context(), req.SocietyName, req.Position, req.RegNo, req.Email)
	if err != nil {
		respondError(c, err, "Failed to validate applicant")
		return
	}
	c.JSON(http.StatusOK, check)
}

// PreviewEventDocument godoc
// @Summary Render an event request before submitting it
// @Tags events
// @Accept  json
// @Produce  html
// @Param   request body models.EventPermission true "Event"
// @Success 200 {string} string "HTML document"
// @Router /events/preview-pdf [post]
func PreviewEventDocument(c *gin.Context) {
	var req models.EventPermission
	if !bindJSON(c, &req) {
		return
	}
	doc, err := svc.PreviewEventDocument(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to render preview")
		return
	}
	sendDocument(c, "event-preview", doc)
}

// GetEvent godoc
// @Summary Get an event request
// @Tags events
// @Produce  json
// @Param   id path int true "Event ID"
// @Success 200 {object} models.EventPermission
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /events/{id} [get]
func GetEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ev, err := svc.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load event")
		return
	}
	c.JSON(http.StatusOK, ev)
}

// UpcomingEvents godoc
// @Summary Approved events from today on
// @Tags events
// @Produce  json
// @Param   limit query int false "Maximum events, 5 by default"
// @Success 200 {array} models.EventPermission
// @Router /events/public/upcoming [get]
func UpcomingEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := svc.UpcomingEvents(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to list upcoming events")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetApplicantDetails godoc
// @Summary Office bearer details for a position
// @Tags events
// @Produce  json
// @Param   societyName query string true "Society name"
// @Param   position    query string true "Position, e.g. president"
// @Success 200 {object} models.Official
// @Failure 400 {object} models.SimpleMessageResponse "Unknown position"
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /events/applicant-details [get]
func GetApplicantDetails(c *gin.Context) {
	society, position := c.Query("societyName"), c.Query("position")
	if society == "" || position == "" {
		c.JSON(http.StatusBadRequest, models.SimpleMessageResponse{Error: "societyName and position are required"})
		return
	}
	official, err := svc.ApplicantDetails(c.Request.Context(), society, position)
	if err != nil {
		respondError(c, err, "Failed to load applicant details")
		return
	}
	c.JSON(http.StatusOK, official)
}

// DownloadEvent godoc
// @Summary Event permission document
// @Tags events
// @Produce  html
// @Param   id        path  int    true  "Event ID"
// @Param   expiry    query int    false "Signed link expiry"
// @Param   signature query string false "Signed link signature"
// @Success 200 {string} string "HTML document"
// @Failure 403 {object} models.SimpleMessageResponse "Invalid or expired link"
// @Router /events/download/{id} [get]
func DownloadEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, err := svc.EventDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to render event")
		return
	}
	sendDocument(c, "event-"+c.Param("id"), doc)
}

// ListPendingEvents godoc
// @Summary Events waiting on the signed-in admin
// @Tags events
// @Produce  json
// @Success 200 {array} models.EventPermission
// @Failure 401 {object} models.SimpleMessageResponse
// @Router /events/admin/pending [get]
func ListPendingEvents(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	rows, err := svc.PendingEvents(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list pending events")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListAllEvents godoc
// @Summary Page through every event request
// @Tags events
// @Produce  json
// @Param   status query string false "Workflow status or all"
// @Param   page   query int    false "Zero-based page"
// @Param   size   query int    false "Page size"
// @Success 200 {object} models.Page[models.EventPermission]
// @Failure 400 {object} models.SimpleMessageResponse "Unknown status"
// @Router /events/admin/all [get]
func ListAllEvents(c *gin.Context) {
	page, err := svc.ListEvents(c.Request.Context(), c.Query("status"), pageRequest(c))
	if err != nil {
		respondError(c, err, "Failed to list events")
		return
	}
	c.JSON(http.StatusOK, page)
}
