package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/port"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 12
	minPasswordLength = 6
)

// AuthService handles site accounts behind POST /api/auth and the admin
// passkey login.
type AuthService struct {
	users    port.UserStore
	tokens   *Tokens
	notifier *Notifier
	messages Messages
	passkey  string
	logger   *zap.Logger
}

func NewAuthService(users port.UserStore, tokens *Tokens, notifier *Notifier, messages Messages, adminPasskey string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		messages: messages,
		passkey:  adminPasskey,
		logger:   logger,
	}
}

// Handle dispatches one multiplexed auth request. The returned bool is
// true when a new account was created.
func (s *AuthService) Handle(ctx context.Context, req domain.AuthRequest) (*domain.AuthResponse, bool, error) {
	switch req.Action {
	case domain.ActionSignup:
		resp, err := s.Signup(ctx, req)
		return resp, err == nil, err
	case domain.ActionLogin:
		resp, err := s.Login(ctx, req)
		return resp, false, err
	case domain.ActionForgot:
		resp, err := s.Forgot(ctx, req)
		return resp, false, err
	case domain.ActionReset:
		resp, err := s.Reset(ctx, req)
		return resp, false, err
	case domain.ActionSocial:
		resp, err := s.Social(ctx, req)
		return resp, false, err
	default:
		return nil, false, &domain.ErrValidation{Message: "Invalid action"}
	}
}

func (s *AuthService) Signup(ctx context.Context, req domain.AuthRequest) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Signup")
	defer span.End()

	email := domain.NormalizeEmail(req.Email)
	if email == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "is required"}
	}
	if len(req.Password) < minPasswordLength {
		return nil, &domain.ErrValidation{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrValidation{Message: "User already exists!"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
	})
	if err != nil {
		var conflict *domain.ErrConflict
		if errors.As(err, &conflict) {
			return nil, &domain.ErrValidation{Message: "User already exists!"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("email", user.Email))
	return &domain.AuthResponse{Message: "Account created!", User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, req domain.AuthRequest) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	invalid := &domain.ErrUnauthorized{Message: "Invalid credentials"}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("login failed", zap.String("email", user.Email))
		return nil, invalid
	}

	token, err := s.tokens.issueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.AuthResponse{Message: "Login successful!", User: user, Token: token}, nil
}

// Forgot always succeeds so callers cannot probe for accounts.
func (s *AuthService) Forgot(ctx context.Context, req domain.AuthRequest) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Forgot")
	defer span.End()

	resp := &domain.AuthResponse{Message: "If that account exists, a reset email has been sent."}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		s.logger.Warn("forgot: user lookup failed", zap.Error(err))
		return resp, nil
	}
	if user == nil || user.PasswordHash == "" {
		return resp, nil
	}

	token, err := s.tokens.issueReset(user)
	if err != nil {
		s.logger.Error("forgot: sign reset token", zap.Error(err))
		return resp, nil
	}
	s.notifier.Notify(ctx, s.messages.PasswordReset(user, token))
	return resp, nil
}

func (s *AuthService) Reset(ctx context.Context, req domain.AuthRequest) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Reset")
	defer span.End()

	claims, err := s.tokens.Parse(req.Token, TokenReset)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, &domain.ErrValidation{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || fingerprint(user.PasswordHash) != claims.Fingerprint {
		return nil, &domain.ErrUnauthorized{Message: "Reset token is no longer valid"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Replace(ctx, user); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password reset", zap.String("email", user.Email))
	return &domain.AuthResponse{Message: "Password updated!"}, nil
}

// Social upserts a passwordless account for an external identity.
func (s *AuthService) Social(ctx context.Context, req domain.AuthRequest) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Social")
	defer span.End()

	email := domain.NormalizeEmail(req.Email)
	if email == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "is required"}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		user, err = s.users.Create(ctx, &domain.User{
			Name:     strings.TrimSpace(req.Name),
			Email:    email,
			Provider: req.Provider,
			Role:     domain.RoleClient,
		})
		if err != nil {
			return nil, fmt.Errorf("create social user: %w", err)
		}
		s.logger.Info("social user created", zap.String("email", email), zap.String("provider", req.Provider))
	}

	token, err := s.tokens.issueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.AuthResponse{Message: "Login successful!", User: user, Token: token}, nil
}

// AdminLogin exchanges the configured passkey for an admin token.
func (s *AuthService) AdminLogin(ctx context.Context, req domain.AdminLoginRequest) (*domain.TokenResponse, error) {
	_, span := tracer.Start(ctx, "AuthService.AdminLogin")
	defer span.End()

	if s.passkey == "" {
		return nil, &domain.ErrUnavailable{Service: "admin login"}
	}
	if subtle.ConstantTimeCompare([]byte(req.Passkey), []byte(s.passkey)) != 1 {
		s.logger.Warn("admin login rejected")
		return nil, &domain.ErrUnauthorized{Message: "Invalid passkey"}
	}

	token, err := s.tokens.issueAdmin()
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.TokenResponse{Token: token, ExpiresIn: int(s.tokens.TTL().Seconds())}, nil
}

// ValidateAdminToken is used by the admin middleware.
func (s *AuthService) ValidateAdminToken(raw string) (*Claims, error) {
	return s.tokens.Parse(raw, TokenAdmin)
}
