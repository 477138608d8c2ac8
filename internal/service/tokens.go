package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "devsamp-bfa"
	resetTokenTTL = 30 * time.Minute
)

// Token types.
const (
	TokenAccess = "access"
	TokenAdmin  = "admin"
	TokenReset  = "reset"
)

// Claims are carried by every token this service issues.
type Claims struct {
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role"`
	Type  string      `json:"type"`
	// Fingerprint ties a reset token to the password hash it was issued
	// against, so it stops working once the password changes.
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of access and admin tokens.
func (t *Tokens) TTL() time.Duration { return t.ttl }

func (t *Tokens) issueAccess(u *domain.User) (string, error) {
	return t.sign(Claims{Email: u.Email, Role: u.Role, Type: TokenAccess}, t.ttl)
}

func (t *Tokens) issueAdmin() (string, error) {
	return t.sign(Claims{Role: domain.RoleAdmin, Type: TokenAdmin}, t.ttl)
}

func (t *Tokens) issueReset(u *domain.User) (string, error) {
	return t.sign(Claims{
		Email:       u.Email,
		Role:        u.Role,
		Type:        TokenReset,
		Fingerprint: fingerprint(u.PasswordHash),
	}, resetTokenTTL)
}

func (t *Tokens) sign(c Claims, ttl time.Duration) (string, error) {
	now := t.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   c.Email,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Parse verifies signature, expiry and token type.
func (t *Tokens) Parse(raw, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Invalid or expired token"}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "Invalid token"}
	}
	if claims.Type != wantType {
		return nil, &domain.ErrUnauthorized{Message: "Invalid token type"}
	}
	return claims, nil
}

func fingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
