package validation

import (
	"encoding/json"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"userprofiles/internal/core/model/request"
	"userprofiles/internal/core/model/response"
)

func validateCreate(req request.CreateUserRequest) []response.ValidationError {
	return FormatValidationErrors(Validator.Struct(req))
}

func validateUpdate(payload string) []response.ValidationError {
	var req request.UpdateUserRequest
	Expect(json.Unmarshal([]byte(payload), &req)).To(Succeed())

	return FormatValidationErrors(Validator.Struct(req))
}

func strPtr(s string) *string { return &s }

func TestCreateUserRequest_Validation(t *testing.T) {
	RegisterTestingT(t)

	t.Run("accepts a minimal payload", func(t *testing.T) {
		Expect(validateCreate(request.CreateUserRequest{Email: "ana@example.com", FullName: "Ana"})).To(BeEmpty())
	})

	t.Run("reports missing fields by json name", func(t *testing.T) {
		errs := validateCreate(request.CreateUserRequest{})

		Expect(errs).To(ContainElement(response.ValidationError{Field: "email", Message: "Email is required"}))
		Expect(errs).To(ContainElement(response.ValidationError{Field: "full_name", Message: "Full name is required"}))
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		errs := validateCreate(request.CreateUserRequest{Email: "not-an-email", FullName: "Ana"})

		Expect(errs).To(Equal([]response.ValidationError{{Field: "email", Message: "Email must be a valid email address"}}))
	})

	t.Run("enforces length limits", func(t *testing.T) {
		errs := validateCreate(request.CreateUserRequest{
			Email:    "ana@example.com",
			FullName: strings.Repeat("a", 201),
			Phone:    strPtr(strings.Repeat("1", 21)),
			Location: strPtr(strings.Repeat("l", 101)),
		})

		Expect(errs).To(HaveLen(3))
		Expect(errs).To(ContainElement(response.ValidationError{Field: "full_name", Message: "Full name must be at most 200 characters long"}))
		Expect(errs).To(ContainElement(response.ValidationError{Field: "phone", Message: "Phone must be at most 20 characters long"}))
		Expect(errs).To(ContainElement(response.ValidationError{Field: "location", Message: "Location must be at most 100 characters long"}))
	})

	t.Run("counts characters, not bytes", func(t *testing.T) {
		Expect(validateCreate(request.CreateUserRequest{Email: "jo@example.com", FullName: strings.Repeat("ç", 200)})).To(BeEmpty())
	})
}

func TestUpdateUserRequest_Validation(t *testing.T) {
	RegisterTestingT(t)

	t.Run("accepts an empty payload", func(t *testing.T) {
		Expect(validateUpdate(`{}`)).To(BeEmpty())
	})

	t.Run("accepts null for optional columns", func(t *testing.T) {
		Expect(validateUpdate(`{"phone": null, "bio": null, "location": null}`)).To(BeEmpty())
	})

	t.Run("rejects a null full_name", func(t *testing.T) {
		Expect(validateUpdate(`{"full_name": null}`)).To(Equal([]response.ValidationError{
			{Field: "full_name", Message: "Full name is required"},
		}))
	})

	t.Run("rejects an empty full_name", func(t *testing.T) {
		Expect(validateUpdate(`{"full_name": ""}`)).To(HaveLen(1))
	})

	t.Run("enforces length limits on set values", func(t *testing.T) {
		errs := validateUpdate(`{"phone": "` + strings.Repeat("9", 21) + `"}`)

		Expect(errs).To(Equal([]response.ValidationError{{Field: "phone", Message: "Phone must be at most 20 characters long"}}))
	})
}

func TestRequestValidator(t *testing.T) {
	RegisterTestingT(t)

	v := NewRequestValidator()
	err := v.ValidateStruct(request.CreateUserRequest{Email: "x", FullName: "X"})

	Expect(err).To(HaveOccurred())
	Expect(v.FormatValidationErrors(err)).To(HaveLen(1))
}
