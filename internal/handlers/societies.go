package handlers

import (
	"net/http"

	"sms-portal/internal/models"
	"sms-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListPublicSocieties godoc
// @Summary List societies
// @Description Pages through societies, newest year first. search matches the name case-insensitively; an unknown status is ignored.
// @Tags societies
// @Produce  json
// @Param   search query string false "Name contains"
// @Param   status query string false "ACTIVE, INACTIVE or PENDING"
// @Param   year   query int    false "Year"
// @Param   page   query int    false "Zero-based page"
// @Param   size   query int    false "Page size"
// @Success 200 {object} models.Page[models.Society]
// @Router /societies/public [get]
func ListPublicSocieties(c *gin.Context) {
	f := service.SocietyFilter{Search: c.Query("search"), Year: queryInt(c, "year")}
	if st, ok := models.ParseSocietyStatus(c.Query("status")); ok {
		f.Status = st
	}
	page, err := svc.ListSocieties(c.Request.Context(), f, pageRequest(c))
	if err != nil {
		respondError(c, err, "Failed to list societies")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPublicSociety godoc
// @Summary Get a society
// @Tags societies
// @Produce  json
// @Param   id path int true "Society ID"
// @Success 200 {object} models.Society
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /societies/public/{id} [get]
func GetPublicSociety(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	soc, err := svc.GetSociety(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load society")
		return
	}
	c.JSON(http.StatusOK, soc)
}

// ListActiveSocieties godoc
// @Summary List active societies by name
// @Tags societies
// @Produce  json
// @Success 200 {array} models.Society
// @Router /societies/active [get]
func ListActiveSocieties(c *gin.Context) {
	rows, err := svc.ActiveSocieties(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list active societies")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetLatestSocietyData godoc
// @Summary Latest approved data of a society
// @Description Returns the newest approved registration or renewal data merged with the society record. Used to pre-fill renewals and events.
// @Tags societies
// @Produce  json
// @Param   societyName query string true "Society name"
// @Success 200 {object} models.Society
// @Failure 400 {object} models.SimpleMessageResponse
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /societies/latest-data [get]
func GetLatestSocietyData(c *gin.Context) {
	soc, err := svc.LatestSocietyData(c.Request.Context(), c.Query("societyName"))
	if err != nil {
		respondError(c, err, "Failed to load society data")
		return
	}
	c.JSON(http.StatusOK, soc)
}

// GetSocietyStatistics godoc
// @Summary Society counts
// @Tags societies
// @Produce  json
// @Success 200 {object} service.SocietyStatistics
// @Router /societies/statistics [get]
func GetSocietyStatistics(c *gin.Context) {
	stats, err := svc.SocietyStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SubmissionResponse acknowledges a new application
type SubmissionResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
	Status  string `json:"status"`
}

// RegisterSociety godoc
// @Summary Apply to register a new society
// @Description Files a registration for the current year. The applicant, the senior treasurer and the faculty dean are emailed.
// @Tags societies
// @Accept  json
// @Produce  json
// @Param   request body models.SocietyRegistration true "Registration"
// @Success 201 {object} handlers.SubmissionResponse
// @Failure 400 {object} handlers.ValidationErrorResponse
// @Failure 409 {object} models.SimpleMessageResponse "Society already registered for this year."
// @Router /societies/register [post]
func RegisterSociety(c *gin.Context) {
	var req models.SocietyRegistration
	if !bindJSON(c, &req) {
		return
	}
	reg, err := svc.RegisterSociety(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to submit registration")
		return
	}
	RequestLogger(c).Info("Society registration submitted", zap.Uint("id", reg.ID), zap.String("society", reg.SocietyName))
	c.JSON(http.StatusCreated, SubmissionResponse{
		Message: "Registration submitted successfully",
		ID:      reg.ID,
		Status:  string(reg.Status),
	})
}

// DownloadRegistration godoc
// @Summary Registration document
// @Description Printable HTML with a verification QR code. Needs a signed link or an admin session.
// @Tags societies
// @Produce  html
// @Param   id        path  int    true  "Registration ID"
// @Param   expiry    query int    false "Signed link expiry"
// @Param   signature query string false "Signed link signature"
// @Success 200 {string} string "HTML document"
// @Failure 403 {object} models.SimpleMessageResponse "Invalid or expired link"
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /societies/registration/download/{id} [get]
func DownloadRegistration(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, err := svc.RegistrationDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to render registration")
		return
	}
	sendDocument(c, "registration-"+c.Param("id"), doc)
}
