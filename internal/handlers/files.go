package handlers

import (
	"fmt"
	"net/http"

	"sms-portal/internal/models"
	"sms-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// ExportSocieties godoc
// @Summary Download societies as CSV
// @Tags files
// @Produce  text/csv
// @Param   search query string false "Name contains"
// @Param   status query string false "ACTIVE, INACTIVE or PENDING"
// @Param   year   query int    false "Year"
// @Success 200 {string} string "CSV"
// @Router /files/export/societies [get]
func ExportSocieties(c *gin.Context) {
	f := service.SocietyFilter{Search: c.Query("search"), Year: queryInt(c, "year")}
	if st, ok := models.ParseSocietyStatus(c.Query("status")); ok {
		f.Status = st
	}
	body, err := svc.ExportSocieties(c.Request.Context(), f)
	if err != nil {
		respondError(c, err, "Failed to export societies")
		return
	}
	name := "societies"
	if f.Year > 0 {
		name = fmt.Sprintf("societies-%d", f.Year)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// VerifyDocument godoc
// @Summary Resolve the QR code printed on a document
// @Tags files
// @Produce  json
// @Param   token query string true "Verification token"
// @Success 200 {object} service.Verification
// @Failure 400 {object} models.SimpleMessageResponse "Invalid or expired code"
// @Failure 404 {object} models.SimpleMessageResponse
// @Router /files/verify [get]
func VerifyDocument(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, models.SimpleMessageResponse{Error: "token is required"})
		return
	}
	v, err := svc.Verify(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to verify document")
		return
	}
	c.JSON(http.StatusOK, v)
}
