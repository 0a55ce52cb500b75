package models

import (
	"time"

	"sms-portal/internal/workflow"
)

// Application is implemented by every record that moves through the
// approval workflow.
type Application interface {
	Kind() workflow.Kind
	GetID() uint
	CurrentStatus() workflow.Status
	SetStatus(workflow.Status)
	// Review returns the review slot for a pending stage, or nil when the
	// application kind has no such stage.
	Review(stage workflow.Status) *StageReview
	FacultyName() string
	Society() string
	ApplicantInfo() Applicant
	MarkApproved(at time.Time)
	MarkRejected(reason string)
	ToApprovalItem() ApprovalItem
}

var (
	_ Application = (*SocietyRegistration)(nil)
	_ Application = (*SocietyRenewal)(nil)
	_ Application = (*EventPermission)(nil)
)

func (r *SocietyRegistration) Kind() workflow.Kind { return workflow.KindRegistration }
func (r *SocietyRegistration) GetID() uint { return r.ID }
func (r *SocietyRegistration) CurrentStatus() workflow.Status { return r.Status }
func (r *SocietyRegistration) SetStatus(s workflow.Status) { r.Status = s }
func (r *SocietyRegistration) FacultyName() string { return r.Faculty }
func (r *SocietyRegistration) Society() string { return r.SocietyName }
func (r *SocietyRegistration) ApplicantInfo() Applicant { return r.Applicant }
func (r *SocietyRegistration) MarkApproved(at time.Time) { r.ApprovedDate = &at }
func (r *SocietyRegistration) MarkRejected(reason string) { r.RejectionReason = reason }

func (r *SocietyRegistration) Review(stage workflow.Status) *StageReview {
	switch stage {
	case workflow.StatusPendingDean:
		return &r.DeanReview
	case workflow.StatusPendingAR:
		return &r.ARReview
	case workflow.StatusPendingVC:
		return &r.VCReview
	}
	return nil
}

func (r *SocietyRegistration) ToApprovalItem() ApprovalItem {
	return ApprovalItem{
		ID:            r.ID,
		Type:          workflow.KindRegistration,
		SocietyName:   r.SocietyName,
		ApplicantName: r.Applicant.FullName,
		Faculty:       r.Faculty,
		SubmittedDate: r.SubmittedDate,
		Status:        r.Status,
	}
}

func (r *SocietyRenewal) Kind() workflow.Kind { return workflow.KindRenewal }
func (r *SocietyRenewal) GetID() uint { return r.ID }
func (r *SocietyRenewal) CurrentStatus() workflow.Status { return r.Status }
func (r *SocietyRenewal) SetStatus(s workflow.Status) { r.Status = s }
func (r *SocietyRenewal) FacultyName() string { return r.Faculty }
func (r *SocietyRenewal) Society() string { return r.SocietyName }
func (r *SocietyRenewal) ApplicantInfo() Applicant { return r.Applicant }
func (r *SocietyRenewal) MarkApproved(at time.Time) { r.ApprovedDate = &at }
func (r *SocietyRenewal) MarkRejected(reason string) { r.RejectionReason = reason }

func (r *SocietyRenewal) Review(stage workflow.Status) *StageReview {
	switch stage {
	case workflow.StatusPendingDean:
		return &r.DeanReview
	case workflow.StatusPendingAR:
		return &r.ARReview
	case workflow.StatusPendingVC:
		return &r.VCReview
	}
	return nil
}

func (r *SocietyRenewal) ToApprovalItem() ApprovalItem {
	return ApprovalItem{
		ID:            r.ID,
		Type:          workflow.KindRenewal,
		SocietyName:   r.SocietyName,
		ApplicantName: r.Applicant.FullName,
		Faculty:       r.Faculty,
		SubmittedDate: r.SubmittedDate,
		Status:        r.Status,
	}
}

func (e *EventPermission) Kind() workflow.Kind { return workflow.KindEvent }
func (e *EventPermission) GetID() uint { return e.ID }
func (e *EventPermission) CurrentStatus() workflow.Status { return e.Status }
func (e *EventPermission) SetStatus(s workflow.Status) { e.Status = s }
func (e *EventPermission) FacultyName() string { return e.Faculty }
func (e *EventPermission) Society() string { return e.SocietyName }
func (e *EventPermission) ApplicantInfo() Applicant { return e.Applicant }
func (e *EventPermission) MarkApproved(at time.Time) { e.ApprovedDate = &at }
func (e *EventPermission) MarkRejected(reason string) { e.RejectionReason = reason }

func (e *EventPermission) Review(stage workflow.Status) *StageReview {
	switch stage {
	case workflow.StatusPendingDean:
		return &e.DeanReview
	case workflow.StatusPendingPremises:
		return &e.PremisesReview
	case workflow.StatusPendingAR:
		return &e.ARReview
	case workflow.StatusPendingVC:
		return &e.VCReview
	}
	return nil
}

func (e *EventPermission) ToApprovalItem() ApprovalItem {
	return ApprovalItem{
		ID:            e.ID,
		Type:          workflow.KindEvent,
		SocietyName:   e.SocietyName,
		EventName:     e.EventName,
		ApplicantName: e.Applicant.FullName,
		Faculty:       e.Faculty,
		SubmittedDate: e.SubmittedDate,
		Status:        e.Status,
	}
}
