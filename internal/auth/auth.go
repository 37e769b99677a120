package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleMedic     Role = "Medic"
	RoleSecretary Role = "Secretary"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMedic, RoleSecretary:
		return true
	}
	return false
}

// Permissions is the fixed capability set of a staff member. Role and
// permissions are independent once a user exists.
type Permissions struct {
	CanManageTemplates bool `json:"canManageTemplates"`
	CanManageStaff     bool `json:"canManageStaff"`
	CanWriteReports    bool `json:"canWriteReports"`
	CanManagePatients  bool `json:"canManagePatients"`
}

// DefaultPermissions is what a freshly created user of the given role gets.
func DefaultPermissions(role Role) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{CanManageTemplates: true, CanManageStaff: true, CanWriteReports: true, CanManagePatients: true}
	case RoleMedic:
		return Permissions{CanWriteReports: true, CanManagePatients: true}
	case RoleSecretary:
		return Permissions{CanManagePatients: true}
	default:
		return Permissions{}
	}
}

type User struct {
	ID          int64       `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents JWT token claims
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates access and refresh tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
)
