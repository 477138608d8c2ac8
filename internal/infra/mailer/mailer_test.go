package mailer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/mailer"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubMailer struct {
	name  string
	err   error
	calls int
}

func (s *stubMailer) Name() string { return s.name }

func (s *stubMailer) Send(context.Context, domain.Message) error {
	s.calls++
	return s.err
}

var welcome = domain.Message{
	Kind:    domain.NotifyWelcome,
	To:      "a@b.com",
	Subject: "Welcome to DevSamp Dashboard!",
	Text:    "hello",
	HTML:    "<p>hello</p>",
}

func TestFailover_FirstSuccessWins(t *testing.T) {
	primary := &stubMailer{name: "smtp"}
	backup := &stubMailer{name: "resend"}

	err := mailer.NewFailover(primary, backup).Send(context.Background(), welcome)

	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, backup.calls)
}

func TestFailover_FallsThrough(t *testing.T) {
	primary := &stubMailer{name: "smtp", err: errors.New("dial tcp: refused")}
	backup := &stubMailer{name: "resend"}

	err := mailer.NewFailover(primary, backup).Send(context.Background(), welcome)

	require.NoError(t, err)
	assert.Equal(t, 1, backup.calls)
}

func TestFailover_AllFail(t *testing.T) {
	primary := &stubMailer{name: "smtp", err: errors.New("refused")}
	backup := &stubMailer{name: "resend", err: errors.New("401")}

	f := mailer.NewFailover(primary, backup)
	err := f.Send(context.Background(), welcome)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp: refused")
	assert.Contains(t, err.Error(), "resend: 401")
	assert.Equal(t, "failover(smtp,resend)", f.Name())
}

func TestFailover_Empty(t *testing.T) {
	err := mailer.NewFailover().Send(context.Background(), welcome)
	assert.ErrorIs(t, err, mailer.ErrNoProviders)
}

func TestGuarded_WrapsProviderError(t *testing.T) {
	inner := &stubMailer{name: "smtp", err: errors.New("timeout")}
	g := mailer.NewGuarded(inner, resilience.NewGuard("smtp", 1, zap.NewNop()))

	err := g.Send(context.Background(), welcome)

	var ext *domain.ErrExternalService
	require.True(t, errors.As(err, &ext))
	assert.Equal(t, "smtp", g.Name())
}

func TestResend_PostsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	r := mailer.NewResend(mailer.ResendConfig{APIKey: "re_test", APIURL: srv.URL, From: "DevSamp <noreply@devsamp.io>"})
	require.NoError(t, r.Send(context.Background(), welcome))

	assert.Equal(t, "DevSamp <noreply@devsamp.io>", got["from"])
	assert.Equal(t, []any{"a@b.com"}, got["to"])
	assert.Equal(t, welcome.Subject, got["subject"])
	assert.Equal(t, welcome.HTML, got["html"])
}

func TestResend_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	err := mailer.NewResend(mailer.ResendConfig{APIKey: "k", APIURL: srv.URL}).Send(context.Background(), welcome)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestLog_NeverFails(t *testing.T) {
	assert.NoError(t, mailer.NewLog(zap.NewNop()).Send(context.Background(), welcome))
}

func TestSMTP_RejectsBadRecipient(t *testing.T) {
	s := mailer.NewSMTP(mailer.SMTPConfig{Host: "127.0.0.1", Port: 1, Username: "ops@devsamp.io", FromName: "DevSamp Notifications"})

	err := s.Send(context.Background(), domain.Message{To: "not an address", Subject: "x", Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp to")
}
