package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
	"sms-portal/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAndPendingApprovals(t *testing.T) {
	env := newTestEnv(t)
	env.seedSociety("Chess Club")
	w := env.do(http.MethodPost, "/societies/register", validRegistration(), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	dean := env.login("dean.eng@pdn.ac.lk", "DEAN", "Engineering")
	w = env.do(http.MethodGet, "/admin/dashboard", nil, dean)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[service.Dashboard](t, w)
	assert.Equal(t, int64(1), d.TotalSocieties)
	assert.Equal(t, int64(1), d.ActiveSocieties)
	assert.Equal(t, 1, d.PendingApprovals)
	assert.Equal(t, workflow.RoleDean, d.UserRole)

	w = env.do(http.MethodGet, "/admin/pending-approvals", nil, dean)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]models.ApprovalItem](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, workflow.KindRegistration, items[0].Type)

	vc := env.login("vc@pdn.ac.lk", "VICE_CHANCELLOR", "")
	w = env.do(http.MethodGet, "/admin/pending-approvals", nil, vc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.ApprovalItem](t, w))

	w = env.do(http.MethodGet, "/admin/societies?status=active", nil, vc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[models.Page[models.Society]](t, w).TotalElements)

	w = env.do(http.MethodGet, "/admin/activity-logs?action=submit", nil, vc)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[models.Page[models.ActivityLog]](t, w)
	require.Len(t, logs.Content, 1)
	assert.Equal(t, "SUBMIT_REGISTRATION", logs.Content[0].Action)
}

func TestMonitoringApplications(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/societies/register", validRegistration(), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	ar := env.login("ar@pdn.ac.lk", "ASSISTANT_REGISTRAR", "")
	w = env.do(http.MethodGet, "/admin/ss/monitoring-applications", nil, ar)
	assert.Equal(t, http.StatusForbidden, w.Code)

	ss := env.login("ss@pdn.ac.lk", "STUDENT_SERVICE", "")
	w = env.do(http.MethodGet, "/admin/ss/monitoring-applications", nil, ss)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]models.ApprovalItem](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, workflow.StatusPendingDean, items[0].Status)
}

func TestSendEmail(t *testing.T) {
	env := newTestEnv(t)
	ar := env.login("ar@pdn.ac.lk", "ASSISTANT_REGISTRAR", "")

	w := env.do(http.MethodPost, "/admin/send-email", service.BulkEmail{
		Subject:    "AGM reminder",
		Body:       "Please submit your AGM minutes.",
		Recipients: []string{"a@pdn.ac.lk", "A@pdn.ac.lk", "b@pdn.ac.lk"},
	}, ar)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decode[SendEmailResponse](t, w).Queued)
	assert.Equal(t, 2, env.mail.count())

	w = env.do(http.MethodPost, "/admin/send-email", service.BulkEmail{
		Subject:    "AGM reminder",
		Body:       "Body",
		Recipients: []string{"not-an-email"},
	}, ar)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestManageAdmins(t *testing.T) {
	env := newTestEnv(t)
	ar := env.login("ar@pdn.ac.lk", "ASSISTANT_REGISTRAR", "")

	vc := env.login("vc@pdn.ac.lk", "VICE_CHANCELLOR", "")
	w := env.do(http.MethodGet, "/admin/ar/manage-admin/all", nil, vc)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/admin/ar/manage-admin/add", service.NewAdminUser{
		Name: "Dean Science", Email: "Dean.Sci@pdn.ac.lk", Role: "dean", Faculty: "Science",
	}, ar)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.AdminUser](t, w)
	assert.Equal(t, "dean.sci@pdn.ac.lk", created.Email)
	assert.True(t, created.IsActive)

	w = env.do(http.MethodPost, "/admin/ar/manage-admin/add", service.NewAdminUser{
		Name: "Dup", Email: "dean.sci@pdn.ac.lk", Role: "DEAN", Faculty: "Science",
	}, ar)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, "/admin/ar/manage-admin/add", service.NewAdminUser{
		Name: "No Faculty", Email: "dean.arts@pdn.ac.lk", Role: "DEAN",
	}, ar)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, fmt.Sprintf("/admin/ar/manage-admin/toggle-active?id=%d", created.ID), nil, ar)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.AdminUser](t, w).IsActive)

	w = env.do(http.MethodPost, "/auth/login", LoginRequest{Email: "dean.sci@pdn.ac.lk", Role: "DEAN", Faculty: "Science"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "inactive admins cannot sign in")

	self, err := env.store.FindAdminUserByEmail(context.Background(), "ar@pdn.ac.lk")
	require.NoError(t, err)
	w = env.do(http.MethodPost, fmt.Sprintf("/admin/ar/manage-admin/toggle-active?id=%d", self.ID), nil, ar)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/admin/ar/manage-admin/toggle-active", nil, ar)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/admin/ar/manage-admin/remove?email=DEAN.SCI@pdn.ac.lk", nil, ar)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Admin removed", decode[models.SimpleMessageResponse](t, w).Message)

	w = env.do(http.MethodPost, "/admin/ar/manage-admin/remove?email=dean.sci@pdn.ac.lk", nil, ar)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/admin/ar/manage-admin/remove?email=ar@pdn.ac.lk", nil, ar)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/admin/ar/manage-admin/all", nil, ar)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.AdminUser](t, w), 5)
}

func TestDeactivateLapsedSocieties(t *testing.T) {
	env := newTestEnv(t)
	old := &models.Society{SocietyName: "Drama Society", Year: fixedNow.Year() - 1, Faculty: "Arts", Status: models.SocietyActive}
	require.NoError(t, env.store.SaveSociety(context.Background(), old))
	env.seedSociety("Chess Club")

	ar := env.login("ar@pdn.ac.lk", "ASSISTANT_REGISTRAR", "")
	w := env.do(http.MethodPost, "/admin/ar/deactivate-lapsed", nil, ar)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[DeactivateLapsedResponse](t, w).Deactivated)

	w = env.do(http.MethodGet, "/societies/active", nil, nil)
	active := decode[[]models.Society](t, w)
	require.Len(t, active, 1)
	assert.Equal(t, "Chess Club", active[0].SocietyName)
}
