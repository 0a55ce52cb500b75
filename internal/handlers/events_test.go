package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
	"sms-portal/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEvent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/events/request", validEvent("Robotics Society"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.seedSociety("Robotics Society")

	past := validEvent("Robotics Society")
	past.EventDate, _ = models.ParseDate("2025-03-01")
	w = env.do(http.MethodPost, "/events/request", past, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid Date: Event cannot be in the past.", decode[models.SimpleMessageResponse](t, w).Error)

	backwards := validEvent("Robotics Society")
	backwards.TimeTo = "08:00"
	w = env.do(http.MethodPost, "/events/request", backwards, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/events/request", validEvent("robotics society"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[SubmissionResponse](t, w).ID

	w = env.do(http.MethodGet, fmt.Sprintf("/events/%d", id), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ev := decode[models.EventPermission](t, w)
	assert.Equal(t, "Robotics Society", ev.SocietyName)
	assert.Equal(t, "Engineering", ev.Faculty)
	assert.Equal(t, workflow.StatusPendingDean, ev.Status)

	w = env.do(http.MethodPost, "/events/preview-pdf", validEvent("Robotics Society"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RoboFest")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "event-preview.html")
}

func TestApplicantEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedSociety("Robotics Society")

	w := env.do(http.MethodGet, "/events/applicant-details?societyName=Robotics%20Society&position=President", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nimal Perera", decode[models.Official](t, w).Name)

	w = env.do(http.MethodGet, "/events/applicant-details?societyName=Robotics%20Society&position=janitor", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/events/applicant-details?societyName=Robotics%20Society&position=Editor", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/events/applicant-details?position=President", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tests := []struct {
		name  string
		req   ApplicantRequest
		valid bool
	}{
		{"matching president", ApplicantRequest{"Robotics Society", "president", "e/20/123", "NIMAL@eng.pdn.ac.lk"}, true},
		{"wrong registration number", ApplicantRequest{"Robotics Society", "president", "E/20/999", "nimal@eng.pdn.ac.lk"}, false},
		{"wrong email", ApplicantRequest{"Robotics Society", "president", "E/20/123", "someone@eng.pdn.ac.lk"}, false},
		{"vacant position", ApplicantRequest{"Robotics Society", "editor", "E/20/123", "nimal@eng.pdn.ac.lk"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/events/validate-applicant", tt.req, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			check := decode[service.ApplicantCheck](t, w)
			assert.Equal(t, tt.valid, check.Valid)
			assert.NotEmpty(t, check.Message)
		})
	}

	w = env.do(http.MethodPost, "/events/validate-applicant", map[string]string{"societyName": "Robotics Society"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventWorkflowEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedSociety("Robotics Society")
	w := env.do(http.MethodPost, "/events/request", validEvent("Robotics Society"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[SubmissionResponse](t, w).ID

	premises := env.login("premises@pdn.ac.lk", "PREMISES_OFFICER", "")
	w = env.do(http.MethodGet, "/events/admin/pending", nil, premises)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.EventPermission](t, w))

	approvers := []struct {
		addr, role, faculty string
	}{
		{"dean.eng@pdn.ac.lk", "DEAN", "Engineering"},
		{"premises@pdn.ac.lk", "PREMISES_OFFICER", ""},
		{"ar@pdn.ac.lk", "ASSISTANT_REGISTRAR", ""},
		{"vc@pdn.ac.lk", "VICE_CHANCELLOR", ""},
	}
	for _, a := range approvers {
		cookies := env.login(a.addr, a.role, a.faculty)
		w = env.do(http.MethodGet, "/events/admin/pending", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, decode[[]models.EventPermission](t, w), 1, a.role)

		w = env.do(http.MethodPost, fmt.Sprintf("/events/admin/approve/%d", id), nil, cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/events/public/upcoming", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	upcoming := decode[[]models.EventPermission](t, w)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "RoboFest", upcoming[0].EventName)

	w = env.do(http.MethodGet, "/events/admin/all?status=APPROVED", nil, premises)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[models.Page[models.EventPermission]](t, w).TotalElements)

	w = env.do(http.MethodGet, "/events/admin/all?status=LATE", nil, premises)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, fmt.Sprintf("/events/admin/reject/%d", id), DecisionRequest{Comment: "too late"}, premises)
	assert.Equal(t, http.StatusConflict, w.Code)
}
