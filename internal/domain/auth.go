package domain

// ============================================================
// Auth request / response types
// ============================================================

// AuthAction selects the operation of the multiplexed POST /api/auth.
type AuthAction string

const (
	ActionLogin  AuthAction = "login"
	ActionSignup AuthAction = "signup"
	ActionForgot AuthAction = "forgot"
	ActionReset  AuthAction = "reset"
	ActionSocial AuthAction = "social"
)

// Role separates agency staff from clients.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User is a site account. Social accounts have no password hash.
type User struct {
	Meta         `bson:",inline"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	Provider     string `json:"provider,omitempty" bson:"provider,omitempty"`
	Role         Role   `json:"role" bson:"role"`
}

func (u *User) Validate() error {
	if err := required("email", u.Email); err != nil {
		return err
	}
	return nil
}

// AuthRequest is the body of POST /api/auth. Which fields are read depends on Action.
type AuthRequest struct {
	Action   AuthAction `json:"action"`
	Name     string     `json:"name,omitempty"`
	Email    string     `json:"email,omitempty"`
	Password string     `json:"password,omitempty"`
	Provider string     `json:"provider,omitempty"`
	Token    string     `json:"token,omitempty"`
}

// AuthResponse is returned by login, signup and social.
type AuthResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

// AdminLoginRequest is the body of POST /api/admin/login.
type AdminLoginRequest struct {
	Passkey string `json:"passkey"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
