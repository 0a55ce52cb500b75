package middleware

import (
	"net/http"
	"slices"

	"sms-portal/internal/workflow"
	"sms-portal/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAuth is a middleware that checks if the user is authenticated.
// It retrieves session data from cookies and sets it in the context.
// If the session data is not found or invalid, it returns an unauthorized response.
// It also sets user ID, username and role in the context for logging purposes.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context) bool {
	session := sessions.Default(c)
	combinedData := session.Get(sessionDataKey)
	if combinedData == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: no session data in cookies"})
		return false
	}
	sessionData, ok := combinedData.(map[string]interface{})
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid session data format"})
		return false
	}
	actor, ok := actorFromSession(sessionData)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: session is incomplete, please sign in again"})
		return false
	}
	c.Set("sessionData", sessionData)
	c.Set("actor", actor)
	c.Set("userID", sessionData["id"])
	c.Set("username", actor.Name)
	c.Set("role", string(actor.Role))
	return true
}

// RequireRole lets the request through only when the signed-in admin holds
// one of roles. It must run after RequireAuth.
func RequireRole(roles ...workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorize(c, roles) {
			return
		}
		c.Next()
	}
}

func authorize(c *gin.Context, roles []workflow.Role) bool {
	actor, ok := CurrentActor(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	if len(roles) > 0 && !slices.Contains(roles, actor.Role) {
		Logger(c).Warn("Role not permitted for route",
			zap.String("role", string(actor.Role)),
			zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: your role cannot access this resource"})
		return false
	}
	return true
}

// RequireSignedURLOrRole admits requests carrying a valid signed link, as
// emailed to applicants, and otherwise falls back to session auth with the
// given roles.
func RequireSignedURLOrRole(roles ...workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("signature") != "" {
			if utils.ValidateSignedURL(c.Request.URL) {
				c.Set("signedURL", true)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired link"})
			return
		}
		if !authenticate(c) || !authorize(c, roles) {
			return
		}
		c.Next()
	}
}
