package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
	"sms-portal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSociety(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/societies/register", validRegistration(), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[SubmissionResponse](t, w)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "PENDING_DEAN", resp.Status)
	assert.Positive(t, env.mail.count())

	t.Run("duplicate for the same year", func(t *testing.T) {
		w := env.do(http.MethodPost, "/societies/register", validRegistration(), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Society already registered for this year.", decode[models.SimpleMessageResponse](t, w).Error)
	})

	t.Run("invalid fields", func(t *testing.T) {
		reg := validRegistration()
		reg.SocietyName = "Chess Club"
		reg.Applicant.Mobile = "12345"
		w := env.do(http.MethodPost, "/societies/register", reg, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decode[ValidationErrorResponse](t, w).Fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := strings.NewReader(`{"societyName":`)
		r, _ := http.NewRequest(http.MethodPost, "/societies/register", req)
		r.Header.Set("Content-Type", "application/json")
		rec := newRecorder()
		env.router.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request payload", decode[models.SimpleMessageResponse](t, rec).Error)
	})
}

func TestPublicSocieties(t *testing.T) {
	env := newTestEnv(t)
	robotics := env.seedSociety("Robotics Society")
	env.seedSociety("Chess Club")

	w := env.do(http.MethodGet, "/societies/public?search=robot", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.Page[models.Society]](t, w)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Robotics Society", page.Content[0].SocietyName)

	w = env.do(http.MethodGet, "/societies/public?status=bogus&size=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[models.Page[models.Society]](t, w)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Len(t, page.Content, 1)

	w = env.do(http.MethodGet, fmt.Sprintf("/societies/public/%d", robotics.ID), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Robotics Society", decode[models.Society](t, w).SocietyName)

	w = env.do(http.MethodGet, "/societies/public/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/societies/public/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/societies/active", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	active := decode[[]models.Society](t, w)
	require.Len(t, active, 2)
	assert.Equal(t, "Chess Club", active[0].SocietyName)

	w = env.do(http.MethodGet, "/societies/statistics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[service.SocietyStatistics](t, w)
	assert.Equal(t, int64(2), stats.TotalSocieties)
	assert.Equal(t, int64(2), stats.ActiveSocieties)

	w = env.do(http.MethodGet, "/societies/latest-data?societyName=robotics%20society", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nimal Perera", decode[models.Society](t, w).President.Name)

	w = env.do(http.MethodGet, "/societies/latest-data?societyName=Drama", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadRegistration(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/societies/register", validRegistration(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[SubmissionResponse](t, w).ID
	path := fmt.Sprintf("/societies/registration/download/%d", id)

	t.Run("no link and no session", func(t *testing.T) {
		w := env.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("signed link", func(t *testing.T) {
		signed, err := utils.GenerateSignedURL("https://sms.pdn.ac.lk"+path, time.Now().Add(time.Hour))
		require.NoError(t, err)
		u, _ := url.Parse(signed)

		w := env.do(http.MethodGet, u.RequestURI()+"&download=true", nil, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, "extra query parameters break the signature")

		w = env.do(http.MethodGet, u.RequestURI(), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
		assert.Contains(t, w.Body.String(), "Robotics Society")
	})

	t.Run("expired link", func(t *testing.T) {
		signed, _ := utils.GenerateSignedURL("https://sms.pdn.ac.lk"+path, time.Now().Add(-time.Minute))
		u, _ := url.Parse(signed)
		w := env.do(http.MethodGet, u.RequestURI(), nil, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin session", func(t *testing.T) {
		cookies := env.login("ar@pdn.ac.lk", "ASSISTANT_REGISTRAR", "")
		w := env.do(http.MethodGet, path+"?download=true", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, fmt.Sprintf(`attachment; filename="registration-%d.html"`, id), w.Header().Get("Content-Disposition"))
	})
}
