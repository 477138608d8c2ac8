package domain_test

import (
	"errors"
	"testing"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
)

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		rec     domain.Record
		wantErr bool
	}{
		{"service ok", &domain.Service{Title: "Web Apps"}, false},
		{"service missing title", &domain.Service{Desc: "x"}, true},
		{"team ok", &domain.TeamMember{Name: "Sam"}, false},
		{"team missing name", &domain.TeamMember{Role: "CTO"}, true},
		{"review ok", &domain.Review{Name: "Ana", Rating: 5}, false},
		{"review rating zero", &domain.Review{Name: "Ana"}, true},
		{"review rating six", &domain.Review{Name: "Ana", Rating: 6}, true},
		{"pricing negative", &domain.PricingPlan{Name: "Pro", PriceMonthly: -1}, true},
		{"blog ok", &domain.BlogPost{Title: "Launch"}, false},
		{"lead ok", &domain.Lead{Name: "Ana", Email: "ana@example.com", Message: "Hi"}, false},
		{"lead without message", &domain.Lead{Name: "Ana", Email: "ana@example.com"}, false},
		{"lead bad email", &domain.Lead{Name: "Ana", Email: "not-an-email", Message: "Hi"}, true},
		{"lead bad status", &domain.Lead{Name: "Ana", Email: "ana@example.com", Message: "Hi", Status: "Lost"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				var v *domain.ErrValidation
				if !errors.As(err, &v) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestLeadInput_ToLead(t *testing.T) {
	l := domain.LeadInput{Name: " Ana ", Email: "Ana@Example.com", Service: "SEO", Message: "Hi"}.ToLead()

	if l.Status != domain.LeadNew {
		t.Errorf("expected status New, got %s", l.Status)
	}
	if l.Email != "ana@example.com" {
		t.Errorf("expected normalized email, got %s", l.Email)
	}
	if l.Name != "Ana" {
		t.Errorf("expected trimmed name, got %q", l.Name)
	}
}
