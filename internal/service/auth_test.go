package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuth(f *fixture, passkey string) *service.AuthService {
	tokens := service.NewTokens("test-secret", time.Hour)
	return service.NewAuthService(f.store.Users, tokens, f.notifier, f.messages, passkey, zap.NewNop())
}

func TestSignupThenLogin(t *testing.T) {
	f := newFixture()
	svc := newAuth(f, "")
	ctx := context.Background()

	resp, created, err := svc.Handle(ctx, domain.AuthRequest{
		Action: domain.ActionSignup, Name: "Ada", Email: "Ada@Example.com", Password: "s3cret!",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Account created!", resp.Message)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEqual(t, "s3cret!", resp.User.PasswordHash)

	_, _, err = svc.Handle(ctx, domain.AuthRequest{Action: domain.ActionSignup, Email: "ada@example.com", Password: "another1"})
	var ve *domain.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "User already exists!", err.Error())

	resp, created, err = svc.Handle(ctx, domain.AuthRequest{Action: domain.ActionLogin, Email: "ada@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NotEmpty(t, resp.Token)

	_, _, err = svc.Handle(ctx, domain.AuthRequest{Action: domain.ActionLogin, Email: "ada@example.com", Password: "wrong"})
	var ue *domain.ErrUnauthorized
	require.ErrorAs(t, err, &ue)

	_, _, err = svc.Handle(ctx, domain.AuthRequest{Action: domain.ActionLogin, Email: "nobody@example.com", Password: "x"})
	require.ErrorAs(t, err, &ue)
}

func TestHandle_InvalidAction(t *testing.T) {
	f := newFixture()
	_, _, err := newAuth(f, "").Handle(context.Background(), domain.AuthRequest{Action: "delete"})
	var ve *domain.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid action", err.Error())
}

func TestForgotAndReset(t *testing.T) {
	f := newFixture()
	svc := newAuth(f, "")
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.AuthRequest{Email: "ada@example.com", Password: "old-pass"})
	require.NoError(t, err)

	resp, err := svc.Forgot(ctx, domain.AuthRequest{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)
	assert.Zero(t, f.mailer.count())

	_, err = svc.Forgot(ctx, domain.AuthRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	sent := f.mailer.ofKind(domain.NotifyPasswordReset)
	require.Len(t, sent, 1)

	token := resetTokenFrom(t, sent[0].Text)

	_, err = svc.Reset(ctx, domain.AuthRequest{Token: token, Password: "new-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.AuthRequest{Email: "ada@example.com", Password: "new-pass"})
	require.NoError(t, err)

	// The token is bound to the old password hash.
	_, err = svc.Reset(ctx, domain.AuthRequest{Token: token, Password: "third-pass"})
	var ue *domain.ErrUnauthorized
	require.ErrorAs(t, err, &ue)
}

func resetTokenFrom(t *testing.T, text string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(text), "\n")
	token := strings.TrimSpace(lines[len(lines)-1])
	require.NotEmpty(t, token)
	return token
}

func TestSocial_UpsertsPasswordlessUser(t *testing.T) {
	f := newFixture()
	svc := newAuth(f, "")
	ctx := context.Background()

	first, err := svc.Social(ctx, domain.AuthRequest{Name: "Ada", Email: "ada@example.com", Provider: "google"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)

	second, err := svc.Social(ctx, domain.AuthRequest{Email: "ada@example.com", Provider: "google"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	_, err = svc.Login(ctx, domain.AuthRequest{Email: "ada@example.com", Password: ""})
	var ue *domain.ErrUnauthorized
	require.ErrorAs(t, err, &ue)
}

func TestAdminLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := newAuth(f, "").AdminLogin(ctx, domain.AdminLoginRequest{Passkey: "x"})
	var un *domain.ErrUnavailable
	require.ErrorAs(t, err, &un)

	svc := newAuth(f, "open-sesame")
	_, err = svc.AdminLogin(ctx, domain.AdminLoginRequest{Passkey: "wrong"})
	var ue *domain.ErrUnauthorized
	require.ErrorAs(t, err, &ue)

	resp, err := svc.AdminLogin(ctx, domain.AdminLoginRequest{Passkey: "open-sesame"})
	require.NoError(t, err)
	assert.Equal(t, 3600, resp.ExpiresIn)

	claims, err := svc.ValidateAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	client, err := svc.Social(ctx, domain.AuthRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = svc.ValidateAdminToken(client.Token)
	require.ErrorAs(t, err, &ue)
}

func TestTokens_RejectForeignSecret(t *testing.T) {
	a := service.NewTokens("secret-a", time.Hour)
	b := service.NewTokens("secret-b", time.Hour)

	f := newFixture()
	svc := service.NewAuthService(f.store.Users, a, f.notifier, f.messages, "pk", zap.NewNop())
	resp, err := svc.AdminLogin(context.Background(), domain.AdminLoginRequest{Passkey: "pk"})
	require.NoError(t, err)

	_, err = b.Parse(resp.Token, service.TokenAdmin)
	var ue *domain.ErrUnauthorized
	require.ErrorAs(t, err, &ue)

	_, err = a.Parse(resp.Token, service.TokenAdmin)
	require.NoError(t, err)
}
