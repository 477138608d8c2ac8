package domain_test

import (
	"errors"
	"testing"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewEngagement_Defaults(t *testing.T) {
	e := domain.NewEngagement(domain.EngagementPatch{
		ClientEmail: ptr("A@B.com"),
		Title:       ptr("Site Revamp"),
	})

	assert.Equal(t, "a@b.com", e.ClientEmail)
	assert.Equal(t, "TBD", e.Budget)
	assert.Equal(t, "TBD", e.DueDate)
	assert.Equal(t, domain.EngagementActive, e.Status)
	assert.Equal(t, domain.PaymentPending, e.PaymentStatus)
	assert.Equal(t, "Discovery", e.NextMilestone)
	assert.Equal(t, domain.DefaultStages(), e.Stages)
	assert.NotNil(t, e.Links)
	assert.NotNil(t, e.Documents)
	assert.NotNil(t, e.Updates)
}

func TestNewEngagement_StagesOverride(t *testing.T) {
	custom := []domain.Stage{{ID: 1, Title: "Audit", Status: domain.StagePending, Date: "Pending"}}
	e := domain.NewEngagement(domain.EngagementPatch{
		ClientEmail: ptr("a@b.com"),
		Title:       ptr("Audit"),
		Stages:      &custom,
	})

	assert.Equal(t, custom, e.Stages)
}

func TestDefaultStages_FreshCopy(t *testing.T) {
	a := domain.DefaultStages()
	a[0].Title = "Changed"

	b := domain.DefaultStages()
	assert.Equal(t, "Discovery", b[0].Title)
	require.Len(t, b, 5)
	for i, s := range b {
		assert.Equal(t, i+1, s.ID)
		assert.Equal(t, domain.StagePending, s.Status)
	}
}

func TestEngagementPatch_Validate(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.EngagementPatch
		field string
	}{
		{"unknown status", domain.EngagementPatch{Status: ptr(domain.EngagementStatus("Archived"))}, "status"},
		{"unknown payment status", domain.EngagementPatch{PaymentStatus: ptr(domain.PaymentStatus("Overdue"))}, "paymentStatus"},
		{"progress above range", domain.EngagementPatch{Progress: ptr(101)}, "progress"},
		{"progress below range", domain.EngagementPatch{Progress: ptr(-1)}, "progress"},
		{"empty stages", domain.EngagementPatch{Stages: &[]domain.Stage{}}, "stages"},
		{"bad stage status", domain.EngagementPatch{Stages: &[]domain.Stage{{ID: 1, Title: "x", Status: "done"}}}, "stages.status"},
		{"bad uploader", domain.EngagementPatch{Documents: &[]domain.Document{{Name: "a", UploadedBy: "Robot"}}}, "documents.uploadedBy"},
		{"blank title", domain.EngagementPatch{Title: ptr("   ")}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			var v *domain.ErrValidation
			require.True(t, errors.As(err, &v), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestEngagementPatch_ValidateAcceptsKnownValues(t *testing.T) {
	p := domain.EngagementPatch{
		Status:        ptr(domain.EngagementCompleted),
		PaymentStatus: ptr(domain.PaymentPartial),
		Progress:      ptr(100),
		Links:         &[]domain.Link{},
		Documents:     &[]domain.Document{{Name: "brief.pdf", UploadedBy: domain.UploadedByClient}},
	}
	assert.NoError(t, p.Validate())
}

func TestEngagementPatch_ValidateCreateRequiresFields(t *testing.T) {
	var v *domain.ErrValidation

	err := domain.EngagementPatch{Title: ptr("x")}.ValidateCreate()
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "clientEmail", v.Field)

	err = domain.EngagementPatch{ClientEmail: ptr("a@b.com")}.ValidateCreate()
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "title", v.Field)
}

func TestEngagementPatch_ApplyToIsShallow(t *testing.T) {
	e := domain.NewEngagement(domain.EngagementPatch{ClientEmail: ptr("a@b.com"), Title: ptr("x")})
	e.Links = []domain.Link{{Title: "Staging", URL: "https://staging"}}

	domain.EngagementPatch{Progress: ptr(50)}.ApplyTo(e)
	assert.Len(t, e.Links, 1)
	assert.Equal(t, 50, e.Progress)

	domain.EngagementPatch{Links: &[]domain.Link{}}.ApplyTo(e)
	assert.Empty(t, e.Links)
}

func TestEngagementPatch_IsEmpty(t *testing.T) {
	assert.True(t, domain.EngagementPatch{}.IsEmpty())
	assert.False(t, domain.EngagementPatch{Updates: &[]domain.Update{}}.IsEmpty())
}

func TestClone_DoesNotAlias(t *testing.T) {
	e := domain.NewEngagement(domain.EngagementPatch{ClientEmail: ptr("a@b.com"), Title: ptr("x")})
	c := e.Clone()
	c.Stages[0].Status = domain.StageCompleted

	assert.Equal(t, domain.StagePending, e.Stages[0].Status)
}

func TestTimeline_ProgressThresholds(t *testing.T) {
	e := domain.NewEngagement(domain.EngagementPatch{ClientEmail: ptr("a@b.com"), Title: ptr("x"), Progress: ptr(40)})

	steps := domain.Timeline(e)
	require.Len(t, steps, 5)

	done := 0
	for _, s := range steps {
		if s.Completed {
			done++
			assert.True(t, s.ByProgress)
		}
	}
	assert.Equal(t, 2, done)
}

func TestTimeline_FlagWinsBelowThreshold(t *testing.T) {
	e := domain.NewEngagement(domain.EngagementPatch{ClientEmail: ptr("a@b.com"), Title: ptr("x")})
	e.Stages[3].Status = domain.StageCompleted

	steps := domain.Timeline(e)

	assert.False(t, steps[0].Completed)
	assert.True(t, steps[3].Completed)
	assert.False(t, steps[3].ByProgress)
}

func TestTimeline_ScalesWithStageCount(t *testing.T) {
	e := &domain.ClientEngagement{
		Progress: 50,
		Stages: []domain.Stage{
			{ID: 1, Title: "Build", Status: domain.StagePending},
			{ID: 2, Title: "Ship", Status: domain.StagePending},
		},
	}

	steps := domain.Timeline(e)

	assert.True(t, steps[0].Completed)
	assert.False(t, steps[1].Completed)
}

func TestTimeline_Nil(t *testing.T) {
	assert.Empty(t, domain.Timeline(nil))
}
