package domain

import (
	"strings"
	"time"
)

// ============================================================
// Client Engagement
// ============================================================

// EngagementStatus is the lifecycle status of a client engagement.
type EngagementStatus string

const (
	EngagementActive    EngagementStatus = "Active"
	EngagementPending   EngagementStatus = "Pending"
	EngagementCompleted EngagementStatus = "Completed"
)

func (s EngagementStatus) Valid() bool {
	switch s {
	case EngagementActive, EngagementPending, EngagementCompleted:
		return true
	}
	return false
}

// PaymentStatus tracks how much of the budget the client has paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPartial PaymentStatus = "Partial"
	PaymentPaid    PaymentStatus = "Paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// StageStatus is the checklist flag of a single delivery stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageCompleted StageStatus = "completed"
)

func (s StageStatus) Valid() bool {
	return s == StagePending || s == StageCompleted
}

// Uploader identifies who attached a document.
type Uploader string

const (
	UploadedByAdmin  Uploader = "Admin"
	UploadedByClient Uploader = "Client"
)

func (u Uploader) Valid() bool {
	return u == UploadedByAdmin || u == UploadedByClient
}

// Stage is one item of the delivery checklist.
type Stage struct {
	ID     int         `json:"id" bson:"id" yaml:"id"`
	Title  string      `json:"title" bson:"title" yaml:"title"`
	Status StageStatus `json:"status" bson:"status" yaml:"status"`
	Date   string      `json:"date" bson:"date" yaml:"date"`
}

// Link points at an external resource such as a design file or staging URL.
type Link struct {
	Title string `json:"title" bson:"title"`
	URL   string `json:"url" bson:"url"`
}

// Document is attachment metadata. The bytes live in the asset store.
type Document struct {
	Name       string   `json:"name" bson:"name"`
	URL        string   `json:"url" bson:"url"`
	UploadedBy Uploader `json:"uploadedBy" bson:"uploadedBy"`
	Date       string   `json:"date" bson:"date"`
}

// Update is one entry of the engagement activity feed.
type Update struct {
	Title string `json:"title" bson:"title"`
	Desc  string `json:"desc" bson:"desc"`
	Date  string `json:"date" bson:"date"`
}

// ClientEngagement is one agency project tied to a client email.
type ClientEngagement struct {
	ID            string           `json:"id" bson:"_id"`
	ClientEmail   string           `json:"clientEmail" bson:"clientEmail"`
	Title         string           `json:"title" bson:"title"`
	Description   string           `json:"description" bson:"description"`
	Budget        string           `json:"budget" bson:"budget"`
	DueDate       string           `json:"dueDate" bson:"dueDate"`
	Status        EngagementStatus `json:"status" bson:"status"`
	PaymentStatus PaymentStatus    `json:"paymentStatus" bson:"paymentStatus"`
	Progress      int              `json:"progress" bson:"progress"`
	NextMilestone string           `json:"nextMilestone" bson:"nextMilestone"`
	Stages        []Stage          `json:"stages" bson:"stages"`
	Links         []Link           `json:"links" bson:"links"`
	Documents     []Document       `json:"documents" bson:"documents"`
	Updates       []Update         `json:"updates" bson:"updates"`
	Revision      int64            `json:"revision" bson:"revision"`
	CreatedAt     time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a deep copy so callers never share slices with a store.
func (e *ClientEngagement) Clone() *ClientEngagement {
	if e == nil {
		return nil
	}
	c := *e
	c.Stages = append([]Stage{}, e.Stages...)
	c.Links = append([]Link{}, e.Links...)
	c.Documents = append([]Document{}, e.Documents...)
	c.Updates = append([]Update{}, e.Updates...)
	return &c
}

// DefaultStageTitles is the five-phase delivery template.
var DefaultStageTitles = []string{"Discovery", "UI/UX Design", "Development", "Testing", "Deployment"}

// DefaultStages returns a fresh copy of the default checklist.
func DefaultStages() []Stage {
	stages := make([]Stage, len(DefaultStageTitles))
	for i, title := range DefaultStageTitles {
		stages[i] = Stage{ID: i + 1, Title: title, Status: StagePending, Date: "Pending"}
	}
	return stages
}

// NormalizeEmail trims and lower-cases an address for ownership lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EngagementPatch carries the fields of a create or update request.
// A nil field was omitted by the caller. A non-nil slice pointer replaces
// the whole array, including with an empty one.
type EngagementPatch struct {
	ClientEmail   *string           `json:"clientEmail,omitempty"`
	Title         *string           `json:"title,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Budget        *string           `json:"budget,omitempty"`
	DueDate       *string           `json:"dueDate,omitempty"`
	Status        *EngagementStatus `json:"status,omitempty"`
	PaymentStatus *PaymentStatus    `json:"paymentStatus,omitempty"`
	Progress      *int              `json:"progress,omitempty"`
	NextMilestone *string           `json:"nextMilestone,omitempty"`
	Stages        *[]Stage          `json:"stages,omitempty"`
	Links         *[]Link           `json:"links,omitempty"`
	Documents     *[]Document       `json:"documents,omitempty"`
	Updates       *[]Update         `json:"updates,omitempty"`
}

// EngagementUpdateRequest is the body of PUT /api/client-projects.
type EngagementUpdateRequest struct {
	ID       string `json:"id"`
	Revision *int64 `json:"revision,omitempty"`
	EngagementPatch
}

// IsEmpty reports whether the patch changes nothing.
func (p EngagementPatch) IsEmpty() bool {
	return p.ClientEmail == nil && p.Title == nil && p.Description == nil &&
		p.Budget == nil && p.DueDate == nil && p.Status == nil &&
		p.PaymentStatus == nil && p.Progress == nil && p.NextMilestone == nil &&
		p.Stages == nil && p.Links == nil && p.Documents == nil && p.Updates == nil
}

// Validate rejects out-of-set enums, out-of-range progress and an emptied
// stage list. It does not check required fields; see ValidateCreate.
func (p EngagementPatch) Validate() error {
	if p.ClientEmail != nil && NormalizeEmail(*p.ClientEmail) == "" {
		return &ErrValidation{Field: "clientEmail", Message: "must not be empty"}
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &ErrValidation{Field: "title", Message: "must not be empty"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &ErrValidation{Field: "status", Message: "must be one of Active, Pending, Completed"}
	}
	if p.PaymentStatus != nil && !p.PaymentStatus.Valid() {
		return &ErrValidation{Field: "paymentStatus", Message: "must be one of Pending, Partial, Paid"}
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return &ErrValidation{Field: "progress", Message: "must be between 0 and 100"}
	}
	if p.Stages != nil {
		if len(*p.Stages) == 0 {
			return &ErrValidation{Field: "stages", Message: "must contain at least one stage"}
		}
		for _, s := range *p.Stages {
			if !s.Status.Valid() {
				return &ErrValidation{Field: "stages.status", Message: "must be pending or completed"}
			}
		}
	}
	if p.Documents != nil {
		for _, d := range *p.Documents {
			if !d.UploadedBy.Valid() {
				return &ErrValidation{Field: "documents.uploadedBy", Message: "must be Admin or Client"}
			}
		}
	}
	return nil
}

// ValidateCreate additionally requires the fields a new engagement needs.
func (p EngagementPatch) ValidateCreate() error {
	if p.ClientEmail == nil {
		return &ErrValidation{Field: "clientEmail", Message: "is required"}
	}
	if p.Title == nil {
		return &ErrValidation{Field: "title", Message: "is required"}
	}
	return p.Validate()
}

// ApplyTo shallow-merges the patch into e.
func (p EngagementPatch) ApplyTo(e *ClientEngagement) {
	if p.ClientEmail != nil {
		e.ClientEmail = NormalizeEmail(*p.ClientEmail)
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Budget != nil {
		e.Budget = *p.Budget
	}
	if p.DueDate != nil {
		e.DueDate = *p.DueDate
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		e.PaymentStatus = *p.PaymentStatus
	}
	if p.Progress != nil {
		e.Progress = *p.Progress
	}
	if p.NextMilestone != nil {
		e.NextMilestone = *p.NextMilestone
	}
	if p.Stages != nil {
		e.Stages = append([]Stage{}, (*p.Stages)...)
	}
	if p.Links != nil {
		e.Links = append([]Link{}, (*p.Links)...)
	}
	if p.Documents != nil {
		e.Documents = append([]Document{}, (*p.Documents)...)
	}
	if p.Updates != nil {
		e.Updates = append([]Update{}, (*p.Updates)...)
	}
}

// NewEngagement builds a record with the schema defaults and the patch
// applied on top. Identity and timestamps are left to the store.
func NewEngagement(p EngagementPatch) *ClientEngagement {
	e := &ClientEngagement{
		Budget:        "TBD",
		DueDate:       "TBD",
		Status:        EngagementActive,
		PaymentStatus: PaymentPending,
		NextMilestone: "Discovery",
		Stages:        DefaultStages(),
		Links:         []Link{},
		Documents:     []Document{},
		Updates:       []Update{},
	}
	p.ApplyTo(e)
	return e
}
