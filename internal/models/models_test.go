package models

import (
	"encoding/json"
	"testing"
	"time"

	"sms-portal/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var payload struct {
		EventDate Date `json:"eventDate"`
		AGMDate   Date `json:"agmDate"`
	}
	err := json.Unmarshal([]byte(`{"eventDate":"2025-03-14","agmDate":null}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", payload.EventDate.String())
	assert.True(t, payload.AGMDate.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"eventDate":"2025-03-14","agmDate":null}`, string(out))
}

func TestDate_UnmarshalTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-14T18:30:00Z"`), &d))
	assert.Equal(t, "2025-03-14", d.String())
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"14/03/2025"`), &d))
}

func TestDate_Scan(t *testing.T) {
	testCases := []struct {
		name  string
		input any
		want  string
	}{
		{"time value", time.Date(2024, 12, 1, 15, 4, 5, 0, time.UTC), "2024-12-01"},
		{"string value", "2024-12-01", "2024-12-01"},
		{"string timestamp", "2024-12-01T00:00:00Z", "2024-12-01"},
		{"bytes value", []byte("2024-12-01"), "2024-12-01"},
		{"nil value", nil, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tc.input))
			assert.Equal(t, tc.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	d, _ := ParseDate("2024-01-31")
	v, err = d.Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), v)
}

func TestDate_Before(t *testing.T) {
	a, _ := ParseDate("2024-01-01")
	b, _ := ParseDate("2024-01-02")
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestParseSocietyStatus(t *testing.T) {
	s, ok := ParseSocietyStatus("ACTIVE")
	assert.True(t, ok)
	assert.Equal(t, SocietyActive, s)

	_, ok = ParseSocietyStatus("active")
	assert.False(t, ok)
	_, ok = ParseSocietyStatus("")
	assert.False(t, ok)
}

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 0, Size: DefaultPageSize}, PageRequest{Page: -3}.Normalize())
	assert.Equal(t, PageRequest{Page: 2, Size: MaxPageSize}, PageRequest{Page: 2, Size: 1000}.Normalize())
	assert.Equal(t, 40, PageRequest{Page: 2, Size: 20}.Offset())
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, PageRequest{Page: 1, Size: 2}, 5)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(5), p.TotalElements)

	empty := NewPage[string](nil, PageRequest{Page: 0, Size: 10}, 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)

	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[],"page":0,"size":10,"totalElements":0,"totalPages":0}`, string(out))
}

func TestApplication_ReviewSlots(t *testing.T) {
	reg := &SocietyRegistration{}
	assert.Same(t, &reg.DeanReview, reg.Review(workflow.StatusPendingDean))
	assert.Same(t, &reg.VCReview, reg.Review(workflow.StatusPendingVC))
	assert.Nil(t, reg.Review(workflow.StatusPendingPremises))

	ren := &SocietyRenewal{}
	assert.Same(t, &ren.ARReview, ren.Review(workflow.StatusPendingAR))
	assert.Nil(t, ren.Review(workflow.StatusApproved))

	ev := &EventPermission{}
	assert.Same(t, &ev.PremisesReview, ev.Review(workflow.StatusPendingPremises))
}

func TestApplication_ToApprovalItem(t *testing.T) {
	submitted := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	ev := &EventPermission{
		ID:            7,
		Applicant:     Applicant{FullName: "Nimal Perera"},
		SocietyName:   "Robotics Society",
		Faculty:       "Engineering",
		EventName:     "RoboFest",
		Status:        workflow.StatusPendingPremises,
		SubmittedDate: submitted,
	}
	assert.Equal(t, ApprovalItem{
		ID:            7,
		Type:          workflow.KindEvent,
		SocietyName:   "Robotics Society",
		EventName:     "RoboFest",
		ApplicantName: "Nimal Perera",
		Faculty:       "Engineering",
		SubmittedDate: submitted,
		Status:        workflow.StatusPendingPremises,
	}, ev.ToApprovalItem())
}

func TestApplication_MarkApprovedAndRejected(t *testing.T) {
	at := time.Now()
	ren := &SocietyRenewal{}
	ren.MarkApproved(at)
	require.NotNil(t, ren.ApprovedDate)
	assert.Equal(t, at, *ren.ApprovedDate)

	reg := &SocietyRegistration{}
	reg.MarkRejected("Incomplete constitution")
	assert.Equal(t, "Incomplete constitution", reg.RejectionReason)
}

func TestOfficial_IsZero(t *testing.T) {
	assert.True(t, Official{}.IsZero())
	assert.True(t, Official{Address: "Kandy"}.IsZero())
	assert.False(t, Official{Name: "Kamal"}.IsZero())
}
