package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"sms-portal/internal/middleware"
	"sms-portal/internal/models"
	"sms-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var svc *service.Service

// InitService sets the service every handler delegates to
func InitService(s *service.Service) {
	svc = s
}

// ValidationErrorResponse is returned for 400s caused by invalid fields
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// logged and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	reqLogger := RequestLogger(c)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		reqLogger.Error(fallback, zap.Error(err))
		c.JSON(status, models.SimpleMessageResponse{Error: fallback})
		return
	}

	msg := err.Error()
	var serr *service.Error
	if errors.As(err, &serr) {
		msg = serr.Msg
		if len(serr.Fields) > 0 {
			c.JSON(status, ValidationErrorResponse{Error: msg, Fields: serr.Fields})
			return
		}
	}
	reqLogger.Debug("Request rejected", zap.Int("status", status), zap.String("reason", msg))
	c.JSON(status, models.SimpleMessageResponse{Error: msg})
}

// bindJSON decodes the request body, replying 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RequestLogger(c).Debug("Invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.SimpleMessageResponse{Error: "Invalid request payload"})
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	if raw == "" {
		raw = c.Query(name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.SimpleMessageResponse{Error: fmt.Sprintf("Invalid %s", name)})
		return 0, false
	}
	return uint(id), true
}

// pageRequest reads the zero-based page and size query parameters.
func pageRequest(c *gin.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	return models.PageRequest{Page: page, Size: size}.Normalize()
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

// currentActor returns the admin placed in the context by RequireAuth.
func currentActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.SimpleMessageResponse{Error: "Unauthorized"})
	}
	return actor, ok
}

// sendDocument serves a rendered HTML document, inline unless download=true.
func sendDocument(c *gin.Context, name string, body []byte) {
	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s.html"`, disposition, name))
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
