package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"testing"

	"sms-portal/internal/config"
	"sms-portal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-for-middleware-test"

// TestMain sets up loggers and the url signing key.
func TestMain(m *testing.M) {
	nopLogger := zap.NewNop() // Use zap.NewDevelopment() for verbose logs during debugging

	InitLogger(nopLogger)
	utils.InitLogger(nopLogger)
	utils.SetSigningSecret(testSecret)

	os.Exit(m.Run())
}

func testServerConfig(t *testing.T, origins []string) config.Server {
	t.Helper()
	raw, err := json.Marshal(origins)
	require.NoError(t, err)
	return config.Server{
		AllowOrigins:   string(raw),
		HMACSecret:     testSecret,
		CookieSameSite: "Strict",
		CookieSecure:   true,
	}
}

func TestSetupMiddleware_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	allowedOrigins := []string{"http://localhost:5173", "https://sms.pdn.ac.lk"}
	r := gin.New()
	require.NoError(t, SetupMiddleware(r, testServerConfig(t, allowedOrigins)))

	r.GET("/testcors", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	testCases := []struct {
		name                   string
		originHeader           string
		expectedHTTPStatus     int
		expectedAllowOrigin    string
		expectAllowCredentials string
	}{
		{
			name:                   "Allowed origin localhost",
			originHeader:           "http://localhost:5173",
			expectedHTTPStatus:     http.StatusOK,
			expectedAllowOrigin:    "http://localhost:5173",
			expectAllowCredentials: "true",
		},
		{
			name:                   "Allowed origin university",
			originHeader:           "https://sms.pdn.ac.lk",
			expectedHTTPStatus:     http.StatusOK,
			expectedAllowOrigin:    "https://sms.pdn.ac.lk",
			expectAllowCredentials: "true",
		},
		{
			name:               "Disallowed origin",
			originHeader:       "http://disallowed.com",
			expectedHTTPStatus: http.StatusForbidden,
		},
		{
			name:               "No origin header",
			originHeader:       "",
			expectedHTTPStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/testcors", nil)
			if tc.originHeader != "" {
				req.Header.Set("Origin", tc.originHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedHTTPStatus, w.Code)
			if tc.expectedAllowOrigin != "" {
				assert.Equal(t, tc.expectedAllowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, tc.expectAllowCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
			}

			// Preflight
			if tc.originHeader == "" {
				return
			}
			optionsReq, _ := http.NewRequest(http.MethodOptions, "/testcors", nil)
			optionsReq.Header.Set("Origin", tc.originHeader)
			optionsReq.Header.Set("Access-Control-Request-Method", "GET")
			optionsW := httptest.NewRecorder()
			r.ServeHTTP(optionsW, optionsReq)

			if slices.Contains(allowedOrigins, tc.originHeader) {
				assert.Equal(t, http.StatusNoContent, optionsW.Code, "OPTIONS request status mismatch")
				assert.Equal(t, tc.expectedAllowOrigin, optionsW.Header().Get("Access-Control-Allow-Origin"))
				assert.NotEmpty(t, optionsW.Header().Get("Access-Control-Allow-Methods"))
			} else {
				assert.Equal(t, http.StatusForbidden, optionsW.Code, "OPTIONS request for disallowed origin should be forbidden")
			}
		})
	}
}

func TestSetupMiddleware_InvalidOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conf := config.Server{AllowOrigins: "http://localhost", HMACSecret: testSecret}
	assert.Error(t, SetupMiddleware(gin.New(), conf))
}

func TestSetupMiddleware_SessionCookieFlags(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, SetupMiddleware(r, testServerConfig(t, []string{"http://localhost:5173"})))
	r.GET("/login", func(c *gin.Context) {
		require.NoError(t, SaveSession(c, testActor()))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/login", nil)
	r.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Equal(t, sessionMaxAge, cookies[0].MaxAge)
}

func TestSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, SameSite("Strict"))
	assert.Equal(t, http.SameSiteNoneMode, SameSite("None"))
	assert.Equal(t, http.SameSiteLaxMode, SameSite("Lax"))
	assert.Equal(t, http.SameSiteLaxMode, SameSite(""))
}
