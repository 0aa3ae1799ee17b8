package factory

import (
	"fmt"
	"sync/atomic"

	fab "github.com/Goldziher/fabricator"

	"userprofiles/internal/core/model/request"
)

// UserAttrs is the raw form a test user is fabricated from.
type UserAttrs struct {
	Email    string
	FullName string
	Phone    string
	Bio      string
	Location string
}

var sequence atomic.Int64

// NewUser builds random UserAttrs. Email is always unique and the bounded
// fields are kept within their column limits unless overridden.
func NewUser(customData ...map[string]any) UserAttrs {
	n := sequence.Add(1)

	defaults := map[string]any{
		"Email":    fmt.Sprintf("user%d@example.com", n),
		"FullName": fmt.Sprintf("Test User %d", n),
		"Phone":    fmt.Sprintf("+5511%08d", n),
		"Location": "Sao Paulo",
	}

	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	return fab.New(UserAttrs{}).Build(defaults)
}

// NewCreateUserRequest fabricates a valid create payload.
func NewCreateUserRequest(customData ...map[string]any) request.CreateUserRequest {
	attrs := NewUser(customData...)

	return request.CreateUserRequest{
		Email:    attrs.Email,
		FullName: attrs.FullName,
		Phone:    optional(attrs.Phone),
		Bio:      optional(attrs.Bio),
		Location: optional(attrs.Location),
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
