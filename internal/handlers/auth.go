package handlers

import (
	"net/http"

	"sms-portal/internal/middleware"
	"sms-portal/internal/models"
	"sms-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRequest represents the request payload for Login
type LoginRequest struct {
	Email   string `json:"email" binding:"required" example:"dean.eng@pdn.ac.lk"`
	Role    string `json:"role" binding:"required" example:"DEAN"`
	Faculty string `json:"faculty" example:"Engineering"`
}

// UserInfoResponse is the signed-in admin
type UserInfoResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Faculty string `json:"faculty,omitempty"`
}

func userInfo(a service.Actor) UserInfoResponse {
	return UserInfoResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role), Faculty: a.Faculty}
}

// Login godoc
// @Summary Sign in as an admin
// @Description Checks the email, role and (for deans) faculty against the active admin accounts and starts a cookie session.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body handlers.LoginRequest true "Credentials"
// @Success 200 {object} handlers.UserInfoResponse "Signed in"
// @Failure 400 {object} models.SimpleMessageResponse "Invalid request payload"
// @Failure 403 {object} models.SimpleMessageResponse "No active admin account matches these credentials."
// @Router /auth/login [post]
func Login(c *gin.Context) {
	reqLogger := RequestLogger(c)

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, err := svc.Authenticate(c.Request.Context(), req.Email, req.Role, req.Faculty)
	if err != nil {
		reqLogger.Warn("Login failed", zap.String("email", req.Email), zap.String("role", req.Role), zap.Error(err))
		respondError(c, err, "Failed to sign in")
		return
	}
	if err := middleware.SaveSession(c, actor); err != nil {
		reqLogger.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.SimpleMessageResponse{Error: "Failed to start session"})
		return
	}

	reqLogger.Info("Admin signed in", zap.String("email", actor.Email), zap.String("role", string(actor.Role)))
	c.JSON(http.StatusOK, userInfo(actor))
}

// Logout godoc
// @Summary Log out and clear the session cookie
// @Tags auth
// @Produce  json
// @Success 200 {object} models.SimpleMessageResponse "Logged out successfully"
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	if err := middleware.ClearSession(c); err != nil {
		RequestLogger(c).Warn("Failed to clear session", zap.Error(err))
	}
	c.JSON(http.StatusOK, models.SimpleMessageResponse{Message: "Logged out successfully"})
}

// GetUserInfo godoc
// @Summary Get the signed-in admin
// @Tags admin
// @Produce  json
// @Success 200 {object} handlers.UserInfoResponse
// @Failure 401 {object} models.SimpleMessageResponse "Unauthorized"
// @Router /admin/user-info [get]
func GetUserInfo(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userInfo(actor))
}
