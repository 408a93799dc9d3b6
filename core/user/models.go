package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/truongductri01/daily-spark/core"
)

// User is a learner receiving the curriculum digests. Stored in a partition of its own (keyed by ID).
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// NewUser contains information needed to create a new User.
// ID is optional; a random one is generated when empty.
type NewUser struct {
	ID          string `json:"id" validate:"omitempty,notblank,max=128"`
	DisplayName string `json:"displayName" validate:"required,notblank"`
	Email       string `json:"email" validate:"required,email"`
}

func (nu *NewUser) Clean() {
	nu.ID = core.CleanString(nu.ID)
	nu.DisplayName = core.CleanString(nu.DisplayName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Empty fields are left untouched.
type UpdateUser struct {
	ID          string `json:"id" validate:"required"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func (uu *UpdateUser) Clean() {
	uu.ID = core.CleanString(uu.ID)
	uu.DisplayName = core.CleanString(uu.DisplayName)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.Clean()
	return validate.Struct(uu)
}

// apply copies the set fields of uu onto usr and reports whether anything changed.
func (uu UpdateUser) apply(usr *User) bool {
	var changed bool
	if uu.DisplayName != "" && uu.DisplayName != usr.DisplayName {
		usr.DisplayName = uu.DisplayName
		changed = true
	}
	if uu.Email != "" && uu.Email != usr.Email {
		usr.Email = uu.Email
		changed = true
	}
	return changed
}
