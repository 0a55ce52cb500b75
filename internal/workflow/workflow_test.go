package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline(t *testing.T) {
	reg, err := Pipeline(KindRegistration)
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusPendingDean, StatusPendingAR, StatusPendingVC, StatusApproved}, reg)

	ren, err := Pipeline(KindRenewal)
	require.NoError(t, err)
	assert.Equal(t, reg, ren)

	ev, err := Pipeline(KindEvent)
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusPendingDean, StatusPendingPremises, StatusPendingAR, StatusPendingVC, StatusApproved}, ev)

	_, err = Pipeline("membership")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestPipelineReturnsCopy(t *testing.T) {
	p, _ := Pipeline(KindEvent)
	p[0] = StatusApproved
	again, _ := Pipeline(KindEvent)
	assert.Equal(t, StatusPendingDean, again[0])
}

func TestInitial(t *testing.T) {
	for _, k := range []Kind{KindRegistration, KindRenewal, KindEvent} {
		s, err := Initial(k)
		require.NoError(t, err)
		assert.Equal(t, StatusPendingDean, s)
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		from    Status
		want    Status
		wantErr error
	}{
		{"registration dean to ar", KindRegistration, StatusPendingDean, StatusPendingAR, nil},
		{"registration ar to vc", KindRegistration, StatusPendingAR, StatusPendingVC, nil},
		{"registration vc to approved", KindRegistration, StatusPendingVC, StatusApproved, nil},
		{"renewal dean to ar", KindRenewal, StatusPendingDean, StatusPendingAR, nil},
		{"event dean to premises", KindEvent, StatusPendingDean, StatusPendingPremises, nil},
		{"event premises to ar", KindEvent, StatusPendingPremises, StatusPendingAR, nil},
		{"event vc to approved", KindEvent, StatusPendingVC, StatusApproved, nil},
		{"renewal has no premises stage", KindRenewal, StatusPendingPremises, "", ErrInvalidStatus},
		{"approved is terminal", KindEvent, StatusApproved, "", ErrTerminal},
		{"rejected is terminal", KindRegistration, StatusRejected, "", ErrTerminal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.kind, tt.from)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		current  Status
		role     Role
		decision Decision
		want     Status
		wantErr  error
	}{
		{"dean approves registration", KindRegistration, StatusPendingDean, RoleDean, Approve, StatusPendingAR, nil},
		{"ar approves renewal", KindRenewal, StatusPendingAR, RoleAssistantRegistrar, Approve, StatusPendingVC, nil},
		{"vc finalizes registration", KindRegistration, StatusPendingVC, RoleViceChancellor, Approve, StatusApproved, nil},
		{"premises approves event", KindEvent, StatusPendingPremises, RolePremisesOfficer, Approve, StatusPendingAR, nil},
		{"dean rejects event", KindEvent, StatusPendingDean, RoleDean, Reject, StatusRejected, nil},
		{"vc rejects renewal", KindRenewal, StatusPendingVC, RoleViceChancellor, Reject, StatusRejected, nil},
		{"ar cannot skip dean", KindRegistration, StatusPendingDean, RoleAssistantRegistrar, Approve, "", ErrNotStageOwner},
		{"vc cannot act at premises", KindEvent, StatusPendingPremises, RoleViceChancellor, Approve, "", ErrNotStageOwner},
		{"student service never acts", KindEvent, StatusPendingDean, RoleStudentService, Reject, "", ErrNotStageOwner},
		{"premises not on registrations", KindRegistration, StatusPendingPremises, RolePremisesOfficer, Approve, "", ErrInvalidStatus},
		{"approved stays approved", KindRegistration, StatusApproved, RoleViceChancellor, Reject, "", ErrTerminal},
		{"rejected stays rejected", KindEvent, StatusRejected, RoleDean, Approve, "", ErrTerminal},
		{"unknown kind", Kind("club"), StatusPendingDean, RoleDean, Approve, "", ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(tt.kind, tt.current, tt.role, tt.decision)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideWalksWholeEventPipeline(t *testing.T) {
	s, _ := Initial(KindEvent)
	for _, role := range []Role{RoleDean, RolePremisesOfficer, RoleAssistantRegistrar, RoleViceChancellor} {
		var err error
		s, err = Decide(KindEvent, s, role, Approve)
		require.NoError(t, err, "role %s", role)
	}
	assert.Equal(t, StatusApproved, s)
	assert.True(t, IsTerminal(s))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(KindRegistration, StatusPendingDean, StatusPendingAR))
	assert.True(t, CanTransition(KindRegistration, StatusPendingAR, StatusRejected))
	assert.True(t, CanTransition(KindEvent, StatusPendingDean, StatusPendingPremises))
	assert.False(t, CanTransition(KindRegistration, StatusPendingDean, StatusPendingVC))
	assert.False(t, CanTransition(KindRegistration, StatusPendingDean, StatusPendingPremises))
	assert.False(t, CanTransition(KindEvent, StatusPendingDean, StatusPendingAR))
	assert.False(t, CanTransition(KindEvent, StatusApproved, StatusRejected))
	assert.False(t, CanTransition(KindEvent, StatusRejected, StatusPendingDean))
	assert.False(t, CanTransition(KindRenewal, StatusPendingPremises, StatusRejected))
}

func TestStageOwner(t *testing.T) {
	owner, ok := StageOwner(StatusPendingPremises)
	assert.True(t, ok)
	assert.Equal(t, RolePremisesOfficer, owner)

	_, ok = StageOwner(StatusApproved)
	assert.False(t, ok)
}

func TestPendingStatusFor(t *testing.T) {
	tests := []struct {
		kind   Kind
		role   Role
		want   Status
		wantOK bool
	}{
		{KindRegistration, RoleDean, StatusPendingDean, true},
		{KindRenewal, RoleAssistantRegistrar, StatusPendingAR, true},
		{KindEvent, RoleViceChancellor, StatusPendingVC, true},
		{KindEvent, RolePremisesOfficer, StatusPendingPremises, true},
		{KindRegistration, RolePremisesOfficer, "", false},
		{KindEvent, RoleStudentService, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"_"+string(tt.role), func(t *testing.T) {
			got, ok := PendingStatusFor(tt.kind, tt.role)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" dean ")
	require.NoError(t, err)
	assert.Equal(t, RoleDean, r)

	r, err = ParseRole("ROLE_ASSISTANT_REGISTRAR")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistantRegistrar, r)

	_, err = ParseRole("janitor")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseStatusAndKind(t *testing.T) {
	s, err := ParseStatus("pending_vc")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingVC, s)

	_, err = ParseStatus("ACTIVE")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	k, err := ParseKind("Event")
	require.NoError(t, err)
	assert.Equal(t, KindEvent, k)

	_, err = ParseKind("club")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStageKey(t *testing.T) {
	assert.Equal(t, "DEAN", StageKey(StatusPendingDean))
	assert.Equal(t, "PREMISES", StageKey(StatusPendingPremises))
	assert.Equal(t, "AR", StageKey(StatusPendingAR))
	assert.Equal(t, "VC", StageKey(StatusPendingVC))
	assert.Equal(t, "APPROVED", StageKey(StatusApproved))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Event Permission", KindLabel(KindEvent))
	assert.Equal(t, "Assistant Registrar", RoleLabel(RoleAssistantRegistrar))
	assert.Equal(t, "Pending Premises Officer Approval", StatusLabel(StatusPendingPremises))
	assert.Equal(t, "Pending Vice Chancellor Approval", StatusLabel(StatusPendingVC))
	assert.Equal(t, "Rejected", StatusLabel(StatusRejected))
}
