package request

import (
	"strings"

	"userprofiles/internal/core/domain"
)

type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	FullName string  `json:"full_name" validate:"required,min=1,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Bio      *string `json:"bio"`
	Location *string `json:"location" validate:"omitempty,max=100"`
}

// UpdateUserRequest only applies the keys the client actually sent. Email
// is not updatable.
type UpdateUserRequest struct {
	FullName Optional[string] `json:"full_name" validate:"omitempty,min=1,max=200"`
	Phone    Optional[string] `json:"phone" validate:"omitempty,max=20"`
	Bio      Optional[string] `json:"bio"`
	Location Optional[string] `json:"location" validate:"omitempty,max=100"`
}

// Changes returns the set fields keyed by column, in the fixed allow-list
// order of domain.UpdatableFields.
func (r UpdateUserRequest) Changes() domain.UserChanges {
	changes := domain.UserChanges{}

	fields := map[domain.ProfileField]Optional[string]{
		domain.FieldFullName: r.FullName,
		domain.FieldPhone:    r.Phone,
		domain.FieldBio:      r.Bio,
		domain.FieldLocation: r.Location,
	}

	for _, field := range domain.UpdatableFields {
		if value := fields[field]; value.Set {
			changes[field] = value.Ptr()
		}
	}

	return changes
}

// FormText turns a submitted form input into an optional column value:
// blank input means "no value".
func FormText(value string) *string {
	value = strings.TrimSpace(value)

	if value == "" {
		return nil
	}

	return &value
}

// FormOptional is FormText for update forms, where every input on the form
// counts as sent and a blank one clears the column.
func FormOptional(value string) Optional[string] {
	if text := FormText(value); text != nil {
		return Some(*text)
	}

	return Null[string]()
}
