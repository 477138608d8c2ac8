package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type panickingMailer struct{}

func (panickingMailer) Name() string { return "panicking" }

func (panickingMailer) Send(context.Context, domain.Message) error {
	panic("relay driver bug")
}

func TestNotify_PanickingMailerCountsAsFailure(t *testing.T) {
	metrics := observability.NewMetrics()
	n := service.NewNotifier(panickingMailer{}, metrics, zap.NewNop(), time.Second)

	var ok bool
	require.NotPanics(t, func() {
		ok = n.Notify(context.Background(), domain.Message{Kind: domain.NotifyWelcome, To: "a@b.com", Subject: "Hi", Text: "Hi"})
	})
	assert.False(t, ok)
	assert.Equal(t, int64(1), metrics.NotificationSnapshot().Failed[domain.NotifyWelcome])
}

func TestLeadSubmit_SurvivesPanickingMailer(t *testing.T) {
	f := newFixture()
	n := service.NewNotifier(panickingMailer{}, f.metrics, zap.NewNop(), time.Second)
	svc := service.NewLeadService(f.store.Leads, n, f.messages, f.events, "owner@devsamp.io", zap.NewNop())

	lead, err := svc.Submit(context.Background(), domain.LeadInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)

	stats := f.metrics.NotificationSnapshot()
	assert.Equal(t, int64(1), stats.Failed[domain.NotifyLeadAdmin])
	assert.Equal(t, int64(1), stats.Failed[domain.NotifyLeadAck])
}
