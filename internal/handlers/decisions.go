package handlers

import (
	"net/http"

	"sms-portal/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DecisionRequest carries the reviewer's comment. It is required to reject.
type DecisionRequest struct {
	Comment string `json:"comment" example:"Constitution attached is outdated"`
}

// DecisionResponse reports where an application moved to
type DecisionResponse struct {
	Message     string          `json:"message"`
	ID          uint            `json:"id"`
	Type        workflow.Kind   `json:"type"`
	Status      workflow.Status `json:"status"`
	StatusLabel string          `json:"statusLabel"`
}

// decide applies the signed-in admin's decision to one application.
func decide(c *gin.Context, kind workflow.Kind, d workflow.Decision) {
	reqLogger := RequestLogger(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	// An approval may come without a body.
	if c.Request.Body != nil && c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	app, err := svc.Decide(c.Request.Context(), actor, kind, id, d, req.Comment)
	if err != nil {
		respondError(c, err, "Failed to record decision")
		return
	}

	reqLogger.Info("Decision recorded",
		zap.String("type", string(kind)),
		zap.Uint("id", id),
		zap.String("decision", string(d)),
		zap.String("status", string(app.CurrentStatus())),
		zap.String("reviewer", actor.Email),
	)
	msg := workflow.KindLabel(kind) + " approved"
	if d == workflow.Reject {
		msg = workflow.KindLabel(kind) + " rejected"
	}
	c.JSON(http.StatusOK, DecisionResponse{
		Message:     msg,
		ID:          app.GetID(),
		Type:        kind,
		Status:      app.CurrentStatus(),
		StatusLabel: workflow.StatusLabel(app.CurrentStatus()),
	})
}

// ApproveRegistration godoc
// @Summary Approve a registration at the current stage
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id      path int                        true  "Registration ID"
// @Param   request body handlers.DecisionRequest   false "Comment"
// @Success 200 {object} handlers.DecisionResponse
// @Failure 403 {object} models.SimpleMessageResponse "Your role cannot act on this application at its current stage."
// @Failure 409 {object} models.SimpleMessageResponse "This application has already been finalized."
// @Router /admin/approve-registration/{id} [post]
func ApproveRegistration(c *gin.Context) {
	decide(c, workflow.KindRegistration, workflow.Approve)
}

// RejectRegistration godoc
// @Summary Reject a registration
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id      path int                      true "Registration ID"
// @Param   request body handlers.DecisionRequest true "Reason"
// @Success 200 {object} handlers.DecisionResponse
// @Failure 400 {object} handlers.ValidationErrorResponse "A reason is required to reject an application."
// @Router /admin/reject-registration/{id} [post]
func RejectRegistration(c *gin.Context) {
	decide(c, workflow.KindRegistration, workflow.Reject)
}

// ApproveRenewal godoc
// @Summary Approve a renewal at the current stage
// @Tags renewals
// @Accept  json
// @Produce  json
// @Param   id      path int                      true  "Renewal ID"
// @Param   request body handlers.DecisionRequest false "Comment"
// @Success 200 {object} handlers.DecisionResponse
// @Router /renewals/admin/approve/{id} [post]
func ApproveRenewal(c *gin.Context) {
	decide(c, workflow.KindRenewal, workflow.Approve)
}

// RejectRenewal godoc
// @Summary Reject a renewal
// @Tags renewals
// @Accept  json
// @Produce  json
// @Param   id      path int                      true "Renewal ID"
// @Param   request body handlers.DecisionRequest true "Reason"
// @Success 200 {object} handlers.DecisionResponse
// @Router /renewals/admin/reject/{id} [post]
func RejectRenewal(c *gin.Context) {
	decide(c, workflow.KindRenewal, workflow.Reject)
}

// ApproveEvent godoc
// @Summary Approve an event permission at the current stage
// @Tags events
// @Accept  json
// @Produce  json
// @Param   id      path int                      true  "Event ID"
// @Param   request body handlers.DecisionRequest false "Comment"
// @Success 200 {object} handlers.DecisionResponse
// @Router /events/admin/approve/{id} [post]
func ApproveEvent(c *gin.Context) {
	decide(c, workflow.KindEvent, workflow.Approve)
}

// RejectEvent godoc
// @Summary Reject an event permission
// @Tags events
// @Accept  json
// @Produce  json
// @Param   id      path int                      true "Event ID"
// @Param   request body handlers.DecisionRequest true "Reason"
// @Success 200 {object} handlers.DecisionResponse
// @Router /events/admin/reject/{id} [post]
func RejectEvent(c *gin.Context) {
	decide(c, workflow.KindEvent, workflow.Reject)
}
