// Package workflow holds the approval state machine shared by society
// registrations, renewals and event permissions.
package workflow

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindRegistration Kind = "registration"
	KindRenewal      Kind = "renewal"
	KindEvent        Kind = "event"
)

type Status string

const (
	StatusPendingDean     Status = "PENDING_DEAN"
	StatusPendingPremises Status = "PENDING_PREMISES"
	StatusPendingAR       Status = "PENDING_AR"
	StatusPendingVC       Status = "PENDING_VC"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
)

type Role string

const (
	RoleDean               Role = "DEAN"
	RoleAssistantRegistrar Role = "ASSISTANT_REGISTRAR"
	RoleViceChancellor     Role = "VICE_CHANCELLOR"
	RolePremisesOfficer    Role = "PREMISES_OFFICER"
	RoleStudentService     Role = "STUDENT_SERVICE"
)

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

var (
	ErrUnknownKind   = errors.New("unknown application kind")
	ErrInvalidStatus = errors.New("status is not part of this workflow")
	ErrTerminal      = errors.New("application has already been finalized")
	ErrNotStageOwner = errors.New("role cannot act on the current approval stage")
	ErrUnknownRole   = errors.New("unknown role")
)

var (
	standardPipeline = []Status{StatusPendingDean, StatusPendingAR, StatusPendingVC, StatusApproved}
	eventPipeline    = []Status{StatusPendingDean, StatusPendingPremises, StatusPendingAR, StatusPendingVC, StatusApproved}

	stageOwners = map[Status]Role{
		StatusPendingDean:     RoleDean,
		StatusPendingPremises: RolePremisesOfficer,
		StatusPendingAR:       RoleAssistantRegistrar,
		StatusPendingVC:       RoleViceChancellor,
	}

	roles = []Role{RoleDean, RoleAssistantRegistrar, RoleViceChancellor, RolePremisesOfficer, RoleStudentService}
)

// Pipeline returns the ordered statuses an application of the given kind
// passes through on its way to approval. REJECTED is reachable from every
// pending entry and is not listed.
func Pipeline(kind Kind) ([]Status, error) {
	switch kind {
	case KindRegistration, KindRenewal:
		return append([]Status(nil), standardPipeline...), nil
	case KindEvent:
		return append([]Status(nil), eventPipeline...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Initial is the status every new application starts in.
func Initial(kind Kind) (Status, error) {
	p, err := Pipeline(kind)
	if err != nil {
		return "", err
	}
	return p[0], nil
}

func IsTerminal(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

func IsPending(s Status) bool {
	_, ok := stageOwners[s]
	return ok
}

// Next returns the stage that follows s when the current stage approves.
func Next(kind Kind, s Status) (Status, error) {
	p, err := Pipeline(kind)
	if err != nil {
		return "", err
	}
	if IsTerminal(s) {
		return "", ErrTerminal
	}
	for i, st := range p {
		if st == s {
			return p[i+1], nil
		}
	}
	return "", fmt.Errorf("%w: %s for %s", ErrInvalidStatus, s, kind)
}

// StageOwner returns the role responsible for a pending status.
func StageOwner(s Status) (Role, bool) {
	r, ok := stageOwners[s]
	return r, ok
}

// PendingStatusFor returns the status a role reviews for the given kind.
func PendingStatusFor(kind Kind, role Role) (Status, bool) {
	p, err := Pipeline(kind)
	if err != nil {
		return "", false
	}
	for _, st := range p {
		if owner, ok := stageOwners[st]; ok && owner == role {
			return st, true
		}
	}
	return "", false
}

// CanTransition reports whether the workflow of kind has an edge from -> to.
func CanTransition(kind Kind, from, to Status) bool {
	if !IsPending(from) {
		return false
	}
	if to == StatusRejected {
		_, err := Next(kind, from)
		return err == nil
	}
	next, err := Next(kind, from)
	return err == nil && next == to
}

// Decide applies a role's decision to an application sitting in current and
// returns the resulting status.
func Decide(kind Kind, current Status, role Role, d Decision) (Status, error) {
	if _, err := Pipeline(kind); err != nil {
		return "", err
	}
	if IsTerminal(current) {
		return "", ErrTerminal
	}
	next, err := Next(kind, current)
	if err != nil {
		return "", err
	}
	if owner := stageOwners[current]; owner != role {
		return "", fmt.Errorf("%w: %s is waiting on %s", ErrNotStageOwner, current, owner)
	}
	switch d {
	case Approve:
		return next, nil
	case Reject:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unknown decision %q", d)
}

// ParseRole accepts role names case-insensitively, with or without a ROLE_ prefix.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "ROLE_")
	for _, r := range roles {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPendingDean, StatusPendingPremises, StatusPendingAR, StatusPendingVC, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindRegistration, KindRenewal, KindEvent:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// StageKey is the short stage label used in activity log actions, e.g.
// APPROVE_EVENT_PREMISES.
func StageKey(s Status) string {
	switch s {
	case StatusPendingDean:
		return "DEAN"
	case StatusPendingPremises:
		return "PREMISES"
	case StatusPendingAR:
		return "AR"
	case StatusPendingVC:
		return "VC"
	}
	return string(s)
}

// Roles lists every known role.
func Roles() []Role {
	return append([]Role(nil), roles...)
}

func KindLabel(k Kind) string {
	switch k {
	case KindRegistration:
		return "Society Registration"
	case KindRenewal:
		return "Society Renewal"
	case KindEvent:
		return "Event Permission"
	}
	return string(k)
}

func RoleLabel(r Role) string {
	switch r {
	case RoleDean:
		return "Dean"
	case RoleAssistantRegistrar:
		return "Assistant Registrar"
	case RoleViceChancellor:
		return "Vice Chancellor"
	case RolePremisesOfficer:
		return "Premises Officer"
	case RoleStudentService:
		return "Student Service Division"
	}
	return string(r)
}

// StatusLabel renders a status for people, e.g. "Pending Dean Approval".
func StatusLabel(s Status) string {
	switch s {
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	}
	if owner, ok := stageOwners[s]; ok {
		return "Pending " + RoleLabel(owner) + " Approval"
	}
	return string(s)
}
