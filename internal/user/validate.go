package user

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CreatePayload is the admin user-creation request body.
type CreatePayload struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"omitempty,oneof=VISITOR EDITOR ADMIN"`
}

func (p CreatePayload) Validate() error {
	return validate.Struct(p)
}

// UpdatePayload carries partial-field update semantics: nil means
// "leave unchanged".
type UpdatePayload struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=32"`
	Email    *string `json:"email" validate:"omitempty,email,max=200"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=VISITOR EDITOR ADMIN"`
}

func (p UpdatePayload) Validate() error {
	return validate.Struct(p)
}
