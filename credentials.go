package authkit

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginCredentials is the transient payload for the password flow. It is
// never persisted; it exists only for the duration of a Login call.
type LoginCredentials struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (c LoginCredentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(
			&c.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&c.Password,
			validation.Required,
		),
	)
}

// SignupCredentials is the transient payload for the signup flow.
// ConfirmPassword equality is enforced here, at the request boundary; the
// signup flow itself does not re-check it.
type SignupCredentials struct {
	Name            string   `form:"name" json:"name"`
	Email           string   `form:"email" json:"email"`
	Password        string   `form:"password" json:"password"`
	ConfirmPassword string   `form:"confirm_password" json:"confirmPassword"`
	UserType        UserType `form:"user_type" json:"userType"`
}

// Validate will validate the payload
func (c SignupCredentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&c.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(c.Password)),
		),
		validation.Field(
			&c.UserType,
			validation.Required,
			validation.In(UserTypeJobSeeker, UserTypeJobCreator),
		),
	)
}

// ValidateStringEquals builds a rule that checks a field matches expected
func ValidateStringEquals(expected string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return fmt.Errorf("value does not match")
		}
		return nil
	}
}
