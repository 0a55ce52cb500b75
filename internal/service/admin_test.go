package service_test

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"sms-portal/internal/models"
	"sms-portal/internal/service"
	"sms-portal/internal/workflow"
	"sms-portal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdminUser(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.CreateAdminUser(f.ctx, f.ar, service.NewAdminUser{
		Name: "Dean Arts", Email: " Dean.Arts@PDN.ac.lk ", Role: "dean", Faculty: "Arts",
	})
	require.NoError(t, err)
	assert.Equal(t, "dean.arts@pdn.ac.lk", user.Email)
	assert.Equal(t, workflow.RoleDean, user.Role)
	assert.True(t, user.IsActive)

	_, err = f.svc.CreateAdminUser(f.ctx, f.ar, service.NewAdminUser{Name: "Again", Email: "dean.arts@pdn.ac.lk", Role: "DEAN", Faculty: "Arts"})
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = f.svc.CreateAdminUser(f.ctx, f.ar, service.NewAdminUser{Name: "No Faculty", Email: "nf@pdn.ac.lk", Role: "DEAN"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.CreateAdminUser(f.ctx, f.ar, service.NewAdminUser{Name: "Janitor", Email: "j@pdn.ac.lk", Role: "JANITOR"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.CreateAdminUser(f.ctx, f.ar, service.NewAdminUser{Name: "Bad", Email: "not-an-email", Role: "VICE_CHANCELLOR"})
	assert.ErrorIs(t, err, service.ErrValidation)

	logs, err := f.svc.ActivityLogs(f.ctx, "", "CREATE_ADMIN", models.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), logs.TotalElements)

	users, err := f.svc.AdminUsers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 7)
}

func TestToggleAndRemoveAdmin(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.ToggleAdminActive(f.ctx, f.ar, f.vc.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	user, err = f.svc.ToggleAdminActive(f.ctx, f.ar, f.vc.ID)
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	_, err = f.svc.ToggleAdminActive(f.ctx, f.ar, f.ar.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = f.svc.ToggleAdminActive(f.ctx, f.ar, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, f.svc.RemoveAdminUser(f.ctx, f.ar, "AR@pdn.ac.lk"), service.ErrForbidden)
	assert.ErrorIs(t, f.svc.RemoveAdminUser(f.ctx, f.ar, "ghost@pdn.ac.lk"), service.ErrNotFound)
	require.NoError(t, f.svc.RemoveAdminUser(f.ctx, f.ar, "ss@pdn.ac.lk"))

	logs, err := f.svc.ActivityLogs(f.ctx, "Assistant", "", models.PageRequest{})
	require.NoError(t, err)
	var actions []string
	for _, l := range logs.Content {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{"REMOVE_ADMIN", "ACTIVATE_ADMIN", "DEACTIVATE_ADMIN"}, actions)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	gmailUser, err := f.svc.CreateAdminUser(f.ctx, f.ar, service.NewAdminUser{
		Name: "Visiting VC", Email: "visiting.vc@gmail.com", Role: "VICE_CHANCELLOR",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		role    string
		faculty string
		wantID  uint
		wantErr error
	}{
		{"matching role", "AR@pdn.ac.lk", "assistant_registrar", "", f.ar.ID, nil},
		{"role prefix", "vc@pdn.ac.lk", "ROLE_VICE_CHANCELLOR", "", f.vc.ID, nil},
		{"dean with faculty", "dean.eng@pdn.ac.lk", "DEAN", "Engineering", f.engDean.ID, nil},
		{"gmail alias", "visiting.vc@googlemail.com", "VICE_CHANCELLOR", "", gmailUser.ID, nil},
		{"dean wrong faculty", "dean.eng@pdn.ac.lk", "DEAN", "Arts", 0, service.ErrForbidden},
		{"wrong role", "ar@pdn.ac.lk", "DEAN", "Engineering", 0, service.ErrForbidden},
		{"unknown user", "nobody@pdn.ac.lk", "DEAN", "", 0, service.ErrForbidden},
		{"missing role", "ar@pdn.ac.lk", "", "", 0, service.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, err := f.svc.Authenticate(f.ctx, tt.email, tt.role, tt.faculty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, actor.ID)
		})
	}

	_, err = f.svc.ToggleAdminActive(f.ctx, f.ar, f.vc.ID)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(f.ctx, "vc@pdn.ac.lk", "VICE_CHANCELLOR", "")
	assert.ErrorIs(t, err, service.ErrForbidden, "inactive account")
}

func TestSendBulkEmail(t *testing.T) {
	f := newFixture(t)

	n, err := f.svc.SendBulkEmail(f.ctx, f.ss, service.BulkEmail{
		Subject:    "AGM reminder",
		Body:       "Please submit your AGM minutes.\nThank you.",
		Recipients: []string{"a@pdn.ac.lk", "A@pdn.ac.lk ", "b@pdn.ac.lk"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	msgs := f.mail.to("a@pdn.ac.lk")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "minutes.<br>Thank you.")

	_, err = f.svc.SendBulkEmail(f.ctx, f.ss, service.BulkEmail{Subject: "x", Body: "y", Recipients: []string{"a@pdn.ac.lk", "nope"}})
	require.ErrorIs(t, err, service.ErrValidation)
	var serr *service.Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Fields, "recipients[1]")

	_, err = f.svc.SendBulkEmail(f.ctx, f.ss, service.BulkEmail{Subject: "x", Body: "y"})
	assert.ErrorIs(t, err, service.ErrValidation)

	logs, err := f.svc.ActivityLogs(f.ctx, "", "BULK_EMAIL_SENT", models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, logs.Content, 1)
	assert.Equal(t, "AGM reminder (2 recipients)", logs.Content[0].Target)
}

func TestSendPendingReminders(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RegisterSociety(f.ctx, validRegistration())
	require.NoError(t, err)
	f.mail.reset()

	n, err := f.svc.SendPendingReminders(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	msgs := f.mail.to("dean.eng@pdn.ac.lk")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Subject, "1 application(s)")
	assert.Contains(t, msgs[0].Body, "Robotics Society")
}

func TestDocumentsAndVerification(t *testing.T) {
	f := newFixture(t)
	reg, err := f.svc.RegisterSociety(f.ctx, validRegistration())
	require.NoError(t, err)

	html, err := f.svc.RegistrationDocument(f.ctx, reg.ID)
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, "Society Registration")
	assert.Contains(t, page, "Robotics Society")
	assert.Contains(t, page, "Pending Dean Approval")
	assert.Contains(t, page, "data:image/png;base64,")
	assert.Contains(t, page, "https://sms.pdn.ac.lk/api/files/verify?token=")

	start := strings.Index(page, "verify?token=") + len("verify?token=")
	end := strings.IndexAny(page[start:], " .<\"")
	token, err := url.QueryUnescape(page[start : start+end])
	require.NoError(t, err)

	v, err := f.svc.Verify(f.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, workflow.KindRegistration, v.Type)
	assert.Equal(t, reg.ID, v.ID)
	assert.Equal(t, workflow.StatusPendingDean, v.Status)

	_, err = f.svc.Verify(f.ctx, "forged")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.RenewalDocument(f.ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	preview, err := f.svc.PreviewEventDocument(f.ctx, validEvent("Robotics Society"))
	require.NoError(t, err)
	assert.Contains(t, string(preview), "RoboFest")
	assert.NotContains(t, string(preview), "<img")

	link, err := f.svc.DownloadURL(workflow.KindEvent, 12)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/api/events/download/12", u.Path)
	assert.Equal(t, strconv.FormatInt(fixedNow.Unix(), 10), u.Query().Get("expiry"))
	sig := u.Query().Get("signature")
	q := u.Query()
	q.Del("signature")
	assert.Equal(t, utils.GenerateHMAC(u.EscapedPath()+"?"+q.Encode()), sig)
}
