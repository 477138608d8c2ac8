package domain

import (
	"net/mail"
	"strings"
)

// LeadStatus is the admin-managed state of a contact inquiry.
type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadClosed    LeadStatus = "Closed"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadClosed:
		return true
	}
	return false
}

// Lead is a public contact-form submission.
type Lead struct {
	Meta    `bson:",inline"`
	Name    string     `json:"name" bson:"name"`
	Email   string     `json:"email" bson:"email"`
	Service string     `json:"service" bson:"service"`
	Message string     `json:"message" bson:"message"`
	Status  LeadStatus `json:"status" bson:"status"`
}

func (l *Lead) Validate() error {
	if err := required("name", l.Name); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return &ErrValidation{Field: "email", Message: "must be a valid address"}
	}
	if l.Status != "" && !l.Status.Valid() {
		return &ErrValidation{Field: "status", Message: "must be one of New, Contacted, Closed"}
	}
	return nil
}

// LeadInput is the body of POST /api/contact.
type LeadInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// ToLead builds a fresh lead in status New.
func (in LeadInput) ToLead() *Lead {
	return &Lead{
		Name:    strings.TrimSpace(in.Name),
		Email:   NormalizeEmail(in.Email),
		Service: strings.TrimSpace(in.Service),
		Message: in.Message,
		Status:  LeadNew,
	}
}

// LeadStatusRequest is the body of PUT /api/contact.
type LeadStatusRequest struct {
	ID     string     `json:"id"`
	Status LeadStatus `json:"status"`
}
