package middleware

import (
	"encoding/gob"
	"net/http"
	"time"

	"sms-portal/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionName   = "mysession"
	sessionMaxAge = 8 * 60 * 60
)

func init() {
	// Register the types for gob encoding
	gob.Register(map[string]any{})
}

// SetupMiddleware sets up CORS and the cookie session store for the Gin engine
func SetupMiddleware(r *gin.Engine, conf config.Server) error {
	allowOrigins, err := conf.Origins()
	if err != nil {
		logger.Error("Failed to parse ALLOW_ORIGINS", zap.Error(err))
		return err
	}

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", RequestIDHeader},
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(conf.HMACSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   conf.CookieSecure,
		SameSite: SameSite(conf.CookieSameSite),
	})
	r.Use(sessions.Sessions(SessionName, store))

	logger.Info("Middleware setup complete", zap.Strings("allowOrigins", allowOrigins))
	return nil
}

// SameSite maps the COOKIE_SAMESITE setting onto http.SameSite, defaulting to Lax.
func SameSite(mode string) http.SameSite {
	switch mode {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
