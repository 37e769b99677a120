package auth

import (
	"strings"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type SignupDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            Role   `json:"role"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// Validate for refresh token DTO
func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}

// signupRoles excludes Admin: administrators are only created by seeding.
var signupRoles = []string{string(RoleMedic), string(RoleSecretary)}

func (d *SignupDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Role == "" {
		d.Role = RoleMedic
	}
}

func (d SignupDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("email", d.Email).Required().Email()
	v.Field("role", string(d.Role)).Required().OneOf(signupRoles, internal.ErrCodeInvalidRole)
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.ValidatePasswordConfirmation(d.Password, d.ConfirmPassword)
}

type CurrentUserResponse struct {
	*User
	Navigation []NavItem `json:"navigation"`
}
