package services

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/auth"
)

const (
	minPasswordLen = 6
	maxNameLen     = 200
)

// RegisterRequest is the body of a registration or an admin create.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
}

// Validate checks the request as it will be stored: name trimmed, email
// normalized. A blank name, email or password is reported as
// common.ErrMissingFields, anything else as common.ErrValidation.
func (r RegisterRequest) Validate() error {
	if isBlank(r.Name) || isBlank(r.Email) || r.Password == "" {
		return common.ErrMissingFields
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = common.NormalizeEmail(r.Email)
	return asValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, maxNameLen)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLen, auth.MaxPasswordBytes)),
		validation.Field(&r.Age, validation.Min(0)),
	))
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest is a partial update; absent fields stay as they are.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Validate checks the request as it will be stored, so a name of only
// spaces is blank.
func (r UpdateRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := common.NormalizeEmail(*r.Email)
		r.Email = &email
	}
	return asValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, maxNameLen)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(minPasswordLen, auth.MaxPasswordBytes)),
		validation.Field(&r.Age, validation.Min(0)),
	))
}

func asValidation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrValidation, err)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
