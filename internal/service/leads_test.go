package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadSubmit_PersistsAndSendsBothNotifications(t *testing.T) {
	f := newFixture()
	svc := f.leads("owner@devsamp.io")

	lead, err := svc.Submit(context.Background(), domain.LeadInput{
		Name: "Ada", Email: "Ada@Example.com", Service: "Web", Message: "Need a site",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadNew, lead.Status)
	assert.Equal(t, "ada@example.com", lead.Email)
	assert.NotEmpty(t, lead.ID)

	admin := f.mailer.ofKind(domain.NotifyLeadAdmin)
	require.Len(t, admin, 1)
	assert.Equal(t, "owner@devsamp.io", admin[0].To)
	assert.Contains(t, admin[0].Subject, "Ada")

	ack := f.mailer.ofKind(domain.NotifyLeadAck)
	require.Len(t, ack, 1)
	assert.Equal(t, "ada@example.com", ack[0].To)

	assert.Equal(t, []string{events.LeadCreated}, f.events.published())
}

func TestLeadSubmit_MessageIsOptional(t *testing.T) {
	f := newFixture()
	svc := f.leads("owner@devsamp.io")

	lead, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "ada@example.com", Service: "SEO"})
	require.NoError(t, err)
	assert.Empty(t, lead.Message)

	stored, err := f.store.Leads.Get(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "SEO", stored.Service)
	assert.Len(t, f.mailer.ofKind(domain.NotifyLeadAck), 1)
}

func TestLeadSubmit_MailFailureStillSucceeds(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("smtp down")
	svc := f.leads("owner@devsamp.io")

	_, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	n, err := f.store.Leads.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLeadSubmit_WithoutAdminAddressOnlyAcknowledges(t *testing.T) {
	f := newFixture()
	svc := f.leads("")

	_, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.ofKind(domain.NotifyLeadAdmin))
	assert.Len(t, f.mailer.ofKind(domain.NotifyLeadAck), 1)
}

func TestLeadSubmit_RejectsInvalidEmail(t *testing.T) {
	f := newFixture()
	svc := f.leads("owner@devsamp.io")

	_, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "not-an-email"})
	var ve *domain.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, f.mailer.count())
}

func TestLeadUpdateStatus(t *testing.T) {
	f := newFixture()
	svc := f.leads("")
	lead, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "ada@example.com", Message: "hi"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), domain.LeadStatusRequest{ID: lead.ID, Status: domain.LeadContacted})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadContacted, updated.Status)
	assert.Equal(t, "hi", updated.Message)

	_, err = svc.UpdateStatus(context.Background(), domain.LeadStatusRequest{ID: lead.ID, Status: "Spam"})
	var ve *domain.ErrValidation
	require.ErrorAs(t, err, &ve)

	_, err = svc.UpdateStatus(context.Background(), domain.LeadStatusRequest{ID: "missing", Status: domain.LeadClosed})
	var nf *domain.ErrNotFound
	require.ErrorAs(t, err, &nf)
}

func TestLeadDelete_Idempotent(t *testing.T) {
	f := newFixture()
	svc := f.leads("")
	lead, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), lead.ID))
	require.NoError(t, svc.Delete(context.Background(), lead.ID))
}

func TestLeadExport_WritesCSV(t *testing.T) {
	f := newFixture()
	svc := f.leads("")
	_, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "ada@example.com", Service: "Web", Message: "hello, world"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Email", "Service", "Message", "Date", "Status"}, rows[0])
	assert.Equal(t, "Ada", rows[1][0])
	assert.Equal(t, "hello, world", rows[1][3])
	assert.Equal(t, "New", rows[1][5])
}
