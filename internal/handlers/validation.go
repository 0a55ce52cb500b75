package handlers

import (
	"net/http"
	"strings"

	"sms-portal/internal/models"
	"sms-portal/pkg/utils"
	"sms-portal/pkg/validation"

	"github.com/gin-gonic/gin"
)

// FieldCheckRequest carries a single value to validate
type FieldCheckRequest struct {
	Value    string `json:"value"`
	Position string `json:"position,omitempty"`
}

// FieldCheckResponse is the outcome of a field check
type FieldCheckResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// BulkEmailCheckRequest lists addresses to validate
type BulkEmailCheckRequest struct {
	Emails []string `json:"emails"`
}

// BulkEmailCheckResponse lists the addresses that failed
type BulkEmailCheckResponse struct {
	Valid         bool     `json:"valid"`
	InvalidEmails []string `json:"invalidEmails"`
}

func checkField(c *gin.Context, check func(req FieldCheckRequest) FieldCheckResponse) {
	var req FieldCheckRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Value) == "" {
		c.JSON(http.StatusBadRequest, models.SimpleMessageResponse{Error: "value is required"})
		return
	}
	c.JSON(http.StatusOK, check(req))
}

// ValidateEmail godoc
// @Summary Check an email address
// @Description The senior treasurer must use a university address.
// @Tags validation
// @Accept  json
// @Produce  json
// @Param   request body handlers.FieldCheckRequest true "Email and optional position"
// @Success 200 {object} handlers.FieldCheckResponse
// @Router /validation/email [post]
func ValidateEmail(c *gin.Context) {
	checkField(c, func(req FieldCheckRequest) FieldCheckResponse {
		if !validation.IsEmail(req.Value) {
			return FieldCheckResponse{Message: "Invalid email address."}
		}
		if utils.NormalizePosition(req.Position) == "seniortreasurer" && !validation.IsUniversityEmail(req.Value) {
			return FieldCheckResponse{Message: "The senior treasurer must use a @" + validation.UniversityDomain() + " address."}
		}
		return FieldCheckResponse{Valid: true, Message: "Valid email address."}
	})
}

// ValidateMobile godoc
// @Summary Check a mobile number
// @Tags validation
// @Accept  json
// @Produce  json
// @Param   request body handlers.FieldCheckRequest true "Mobile number"
// @Success 200 {object} handlers.FieldCheckResponse
// @Router /validation/mobile [post]
func ValidateMobile(c *gin.Context) {
	checkField(c, func(req FieldCheckRequest) FieldCheckResponse {
		if !validation.IsMobile(req.Value) {
			return FieldCheckResponse{Message: "Invalid mobile number. Use 07XXXXXXXX or +947XXXXXXXX."}
		}
		return FieldCheckResponse{Valid: true, Message: "Valid mobile number."}
	})
}

// ValidateRegistrationNumber godoc
// @Summary Check a student registration number
// @Tags validation
// @Accept  json
// @Produce  json
// @Param   request body handlers.FieldCheckRequest true "Registration number, e.g. E/19/123"
// @Success 200 {object} handlers.FieldCheckResponse
// @Router /validation/registration-number [post]
func ValidateRegistrationNumber(c *gin.Context) {
	checkField(c, func(req FieldCheckRequest) FieldCheckResponse {
		if !validation.IsRegNo(req.Value) {
			return FieldCheckResponse{Message: "Invalid registration number. Use the format E/19/123."}
		}
		return FieldCheckResponse{Valid: true, Message: "Valid registration number."}
	})
}

// ValidateBulkEmails godoc
// @Summary Check a list of email addresses
// @Tags validation
// @Accept  json
// @Produce  json
// @Param   request body handlers.BulkEmailCheckRequest true "Addresses"
// @Success 200 {object} handlers.BulkEmailCheckResponse
// @Router /validation/bulk-emails [post]
func ValidateBulkEmails(c *gin.Context) {
	var req BulkEmailCheckRequest
	if !bindJSON(c, &req) {
		return
	}
	invalid := []string{}
	for _, e := range req.Emails {
		if !validation.IsEmail(e) {
			invalid = append(invalid, e)
		}
	}
	c.JSON(http.StatusOK, BulkEmailCheckResponse{Valid: len(invalid) == 0, InvalidEmails: invalid})
}
