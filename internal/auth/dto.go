package auth

import (
	"regexp"
	"strings"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/common/validation"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SendOTPDTO struct {
	Email string `json:"email"`
}

func (d SendOTPDTO) Validate(domain string) error {
	v := validation.NewValidator()
	v.Field("email", normalizeEmail(d.Email)).Required().EmailDomain(domain)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type SignupDTO struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	OTP             string `json:"otp"`
}

func (d SignupDTO) Validate(domain string) error {
	v := validation.NewValidator()
	v.Field("email", normalizeEmail(d.Email)).Required().EmailDomain(domain)
	v.Field("full_name", d.FullName).Required().MaxLength(255)
	v.Field("phone", d.Phone).Required().Matches(phonePattern, "phone number must be exactly 10 digits", internal.ErrCodeInvalidPhone)
	v.Field("password", d.Password).Required().MinLength(8).StrongPassword()
	v.Field("confirm_password", d.ConfirmPassword).Required().Custom(func(value interface{}) *internal.AppError {
		if value.(string) != d.Password {
			return internal.NewValidationFieldError("confirm_password", "passwords do not match", internal.ErrCodePasswordMismatch)
		}
		return nil
	})
	v.Field("otp", d.OTP).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
