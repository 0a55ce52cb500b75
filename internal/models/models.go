package models

import (
	"time"

	"sms-portal/internal/workflow"
)

type SocietyStatus string

const (
	SocietyActive   SocietyStatus = "ACTIVE"
	SocietyInactive SocietyStatus = "INACTIVE"
	SocietyPending  SocietyStatus = "PENDING"
)

// ParseSocietyStatus returns false for anything that is not a known status.
func ParseSocietyStatus(s string) (SocietyStatus, bool) {
	switch st := SocietyStatus(s); st {
	case SocietyActive, SocietyInactive, SocietyPending:
		return st, true
	}
	return "", false
}

// SimpleMessageResponse is the envelope for plain success and error replies
type SimpleMessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type AdminUser struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null" json:"name"`
	Email     string        `gorm:"uniqueIndex;not null" json:"email"`
	Role      workflow.Role `gorm:"type:varchar(32);index;not null" json:"role"`
	Faculty   string        `json:"faculty,omitempty"`
	IsActive  bool          `gorm:"not null" json:"isActive"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserName  string    `gorm:"index" json:"userName"`
	UserRole  string    `json:"userRole"`
	Action    string    `gorm:"index" json:"action"`
	Target    string    `json:"target"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

// Applicant is the student who filed an application.
type Applicant struct {
	FullName string `json:"fullName" validate:"notblank"`
	RegNo    string `json:"regNo" validate:"required,regno"`
	Email    string `json:"email" validate:"required,email"`
	Faculty  string `json:"faculty"`
	Mobile   string `json:"mobile" validate:"omitempty,mobile"`
}

// Official is one office bearer of a society.
type Official struct {
	RegNo   string `json:"regNo" validate:"omitempty,regno"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email" validate:"omitempty,email"`
	Mobile  string `json:"mobile" validate:"omitempty,mobile"`
}

func (o Official) IsZero() bool {
	return o.Name == "" && o.RegNo == "" && o.Email == ""
}

// Officials groups the six office bearer positions.
type Officials struct {
	President       Official `gorm:"embedded;embeddedPrefix:president_" json:"president"`
	VicePresident   Official `gorm:"embedded;embeddedPrefix:vice_president_" json:"vicePresident"`
	Secretary       Official `gorm:"embedded;embeddedPrefix:secretary_" json:"secretary"`
	JointSecretary  Official `gorm:"embedded;embeddedPrefix:joint_secretary_" json:"jointSecretary"`
	JuniorTreasurer Official `gorm:"embedded;embeddedPrefix:junior_treasurer_" json:"juniorTreasurer"`
	Editor          Official `gorm:"embedded;embeddedPrefix:editor_" json:"editor"`
}

type SeniorTreasurer struct {
	Title       string `json:"title,omitempty"`
	FullName    string `json:"fullName"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address,omitempty"`
	Mobile      string `json:"mobile,omitempty" validate:"omitempty,mobile"`
}

type AdvisoryBoardMember struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
}

type Member struct {
	RegNo string `json:"regNo"`
	Name  string `json:"name"`
}

type PlanningEvent struct {
	Month    string `json:"month"`
	Activity string `json:"activity"`
}

// StageReview records what happened at one approval stage.
type StageReview struct {
	Approved   bool       `json:"approved"`
	Date       *time.Time `json:"date,omitempty"`
	Comment    string     `gorm:"type:text" json:"comment,omitempty"`
	ReviewedBy string     `json:"reviewedBy,omitempty"`
}

type Society struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SocietyName     string          `gorm:"uniqueIndex:idx_society_name_year;not null" json:"societyName"`
	Year            int             `gorm:"uniqueIndex:idx_society_name_year;not null" json:"year"`
	Faculty         string          `gorm:"not null" json:"faculty"`
	Status          SocietyStatus   `gorm:"type:varchar(16);index;not null" json:"status"`
	Aims            string          `gorm:"type:text" json:"aims,omitempty"`
	AGMDate         Date            `json:"agmDate"`
	Website         string          `json:"website,omitempty"`
	BankAccount     string          `json:"bankAccount,omitempty"`
	BankName        string          `json:"bankName,omitempty"`
	Officials       `gorm:"embedded"`
	SeniorTreasurer SeniorTreasurer `gorm:"embedded;embeddedPrefix:senior_treasurer_" json:"seniorTreasurer"`
	RegisteredDate  Date            `json:"registeredDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type SocietyRegistration struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	Applicant        Applicant             `gorm:"embedded;embeddedPrefix:applicant_" json:"applicant"`
	SocietyName      string                `gorm:"index;not null" json:"societyName" validate:"notblank"`
	Faculty          string                `gorm:"index" json:"faculty" validate:"notblank"`
	Aims             string                `gorm:"type:text" json:"aims"`
	AGMDate          Date                  `json:"agmDate"`
	BankAccount      string                `json:"bankAccount"`
	BankName         string                `json:"bankName"`
	SeniorTreasurer  SeniorTreasurer       `gorm:"embedded;embeddedPrefix:senior_treasurer_" json:"seniorTreasurer"`
	Officials        `gorm:"embedded"`
	AdvisoryBoard    []AdvisoryBoardMember `gorm:"type:jsonb;serializer:json" json:"advisoryBoard"`
	CommitteeMembers []Member              `gorm:"type:jsonb;serializer:json" json:"committeeMembers"`
	Members          []Member              `gorm:"type:jsonb;serializer:json" json:"members"`
	PlanningEvents   []PlanningEvent       `gorm:"type:jsonb;serializer:json" json:"planningEvents"`
	Year             int                   `gorm:"index;not null" json:"year"`
	Status           workflow.Status       `gorm:"type:varchar(24);index;not null" json:"status"`
	DeanReview       StageReview           `gorm:"embedded;embeddedPrefix:dean_" json:"deanReview"`
	ARReview         StageReview           `gorm:"embedded;embeddedPrefix:ar_" json:"arReview"`
	VCReview         StageReview           `gorm:"embedded;embeddedPrefix:vc_" json:"vcReview"`
	SubmittedDate    time.Time             `json:"submittedDate"`
	ApprovedDate     *time.Time            `json:"approvedDate,omitempty"`
	RejectionReason  string                `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type SocietyRenewal struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	Applicant        Applicant             `gorm:"embedded;embeddedPrefix:applicant_" json:"applicant"`
	SocietyName      string                `gorm:"index;not null" json:"societyName" validate:"notblank"`
	Faculty          string                `gorm:"index" json:"faculty"`
	RenewalYear      int                   `gorm:"index;not null" json:"renewalYear"`
	// Year is the calendar year the renewal was submitted in
	Year             int                   `gorm:"index;not null;default:0" json:"year"`
	Aims             string                `gorm:"type:text" json:"aims,omitempty"`
	AGMDate          Date                  `json:"agmDate"`
	Website          string                `json:"website,omitempty" validate:"omitempty,url"`
	BankAccount      string                `json:"bankAccount"`
	BankName         string                `json:"bankName"`
	Difficulties     string                `gorm:"type:text" json:"difficulties,omitempty"`
	SeniorTreasurer  SeniorTreasurer       `gorm:"embedded;embeddedPrefix:senior_treasurer_" json:"seniorTreasurer"`
	Officials        `gorm:"embedded"`
	AdvisoryBoard    []AdvisoryBoardMember `gorm:"type:jsonb;serializer:json" json:"advisoryBoard"`
	CommitteeMembers []Member              `gorm:"type:jsonb;serializer:json" json:"committeeMembers"`
	Members          []Member              `gorm:"type:jsonb;serializer:json" json:"members"`
	PastActivities   []PlanningEvent       `gorm:"type:jsonb;serializer:json" json:"pastActivities"`
	PlanningEvents   []PlanningEvent       `gorm:"type:jsonb;serializer:json" json:"planningEvents"`
	Status           workflow.Status       `gorm:"type:varchar(24);index;not null" json:"status"`
	DeanReview       StageReview           `gorm:"embedded;embeddedPrefix:dean_" json:"deanReview"`
	ARReview         StageReview           `gorm:"embedded;embeddedPrefix:ar_" json:"arReview"`
	VCReview         StageReview           `gorm:"embedded;embeddedPrefix:vc_" json:"vcReview"`
	SubmittedDate    time.Time             `json:"submittedDate"`
	ApprovedDate     *time.Time            `json:"approvedDate,omitempty"`
	RejectionReason  string                `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type EventPermission struct {
	ID                         uint            `gorm:"primaryKey" json:"id"`
	Applicant                  Applicant       `gorm:"embedded;embeddedPrefix:applicant_" json:"applicant"`
	ApplicantPosition          string          `json:"applicantPosition" validate:"notblank"`
	SocietyName                string          `gorm:"index;not null" json:"societyName" validate:"notblank"`
	Faculty                    string          `gorm:"index" json:"faculty"`
	EventName                  string          `gorm:"not null" json:"eventName" validate:"notblank"`
	EventDate                  Date            `gorm:"index" json:"eventDate"`
	TimeFrom                   string          `json:"timeFrom" validate:"required,datetime=15:04"`
	TimeTo                     string          `json:"timeTo" validate:"required,datetime=15:04"`
	Place                      string          `json:"place" validate:"notblank"`
	IsInsideUniversity         bool            `json:"isInsideUniversity"`
	LatePassRequired           bool            `json:"latePassRequired"`
	OutsidersInvited           bool            `json:"outsidersInvited"`
	OutsidersList              string          `gorm:"type:text" json:"outsidersList,omitempty"`
	FirstYearParticipation     bool            `json:"firstYearParticipation"`
	BudgetEstimate             string          `json:"budgetEstimate,omitempty"`
	FundCollectionMethods      string          `gorm:"type:text" json:"fundCollectionMethods,omitempty"`
	StudentFeeAmount           string          `json:"studentFeeAmount,omitempty"`
	ReceiptNumber              string          `json:"receiptNumber,omitempty"`
	PaymentDate                Date            `json:"paymentDate"`
	SeniorTreasurerName        string          `json:"seniorTreasurerName,omitempty"`
	SeniorTreasurerDepartment  string          `json:"seniorTreasurerDepartment,omitempty"`
	SeniorTreasurerMobile      string          `json:"seniorTreasurerMobile,omitempty" validate:"omitempty,mobile"`
	PremisesOfficerName        string          `json:"premisesOfficerName,omitempty"`
	PremisesOfficerDesignation string          `json:"premisesOfficerDesignation,omitempty"`
	PremisesOfficerDivision    string          `json:"premisesOfficerDivision,omitempty"`
	Status                     workflow.Status `gorm:"type:varchar(24);index;not null" json:"status"`
	DeanReview                 StageReview     `gorm:"embedded;embeddedPrefix:dean_" json:"deanReview"`
	PremisesReview             StageReview     `gorm:"embedded;embeddedPrefix:premises_" json:"premisesReview"`
	ARReview                   StageReview     `gorm:"embedded;embeddedPrefix:ar_" json:"arReview"`
	VCReview                   StageReview     `gorm:"embedded;embeddedPrefix:vc_" json:"vcReview"`
	SubmittedDate              time.Time       `json:"submittedDate"`
	ApprovedDate               *time.Time      `json:"approvedDate,omitempty"`
	RejectionReason            string          `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedAt                  time.Time       `json:"createdAt"`
	UpdatedAt                  time.Time       `json:"updatedAt"`
}

// ApprovalItem is the flattened row shown in approval queues and the
// monitoring view.
type ApprovalItem struct {
	ID            uint            `json:"id"`
	Type          workflow.Kind   `json:"type"`
	SocietyName   string          `json:"societyName"`
	EventName     string          `json:"eventName,omitempty"`
	ApplicantName string          `json:"applicantName"`
	Faculty       string          `json:"faculty"`
	SubmittedDate time.Time       `json:"submittedDate"`
	Status        workflow.Status `json:"status"`
}

// Page is one slice of a paged listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{Content: content, Page: req.Page, Size: req.Size, TotalElements: total, TotalPages: pages}
}

// PageRequest is a zero-based page index and page size.
type PageRequest struct {
	Page int
	Size int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}
