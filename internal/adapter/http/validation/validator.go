package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"userprofiles/internal/core/model/request"
	"userprofiles/internal/core/model/response"
	"userprofiles/internal/core/port"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	Validator.RegisterTagNameFunc(jsonFieldName)
	Validator.RegisterCustomTypeFunc(optionalString, request.Optional[string]{})
	Validator.RegisterStructValidation(updateUserStructLevel, request.UpdateUserRequest{})

	addCustomTranslations()
}

// jsonFieldName reports fields by their JSON key so errors match the payload.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

// optionalString validates an Optional by its value; unset and null values
// look empty, so omitempty rules skip them.
func optionalString(field reflect.Value) interface{} {
	if value, ok := field.Interface().(request.Optional[string]); ok && value.HasValue() {
		return value.Value
	}

	return nil
}

// full_name is NOT NULL, so an update may change it but never clear it.
func updateUserStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.UpdateUserRequest)

	if req.FullName.Set && (req.FullName.Null || req.FullName.Value == "") {
		sl.ReportError(req.FullName, "full_name", "FullName", "required", "")
	}
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("min", Translator, func(ut ut.Translator) error {
		return ut.Add("min", "{0} must be at least {1} characters long", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("min", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} must be at most {1} characters long", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("email", Translator, func(ut ut.Translator) error {
		return ut.Add("email", "{0} must be a valid email address", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("email", getFieldName(fe.Field()))
		return t
	})
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"email":     "Email",
		"full_name": "Full name",
		"phone":     "Phone",
		"bio":       "Bio",
		"location":  "Location",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

func FormatValidationErrors(err error) []response.ValidationError {
	var result []response.ValidationError
	var validationErrors validator.ValidationErrors

	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, response.ValidationError{
				Field:   fieldError.Field(),
				Message: fieldError.Translate(Translator),
			})
		}
	}

	return result
}

// RequestValidator exposes the package validator through port.Validator.
type RequestValidator struct{}

func NewRequestValidator() port.Validator {
	return RequestValidator{}
}

func (RequestValidator) ValidateStruct(s interface{}) error {
	return Validator.Struct(s)
}

func (RequestValidator) FormatValidationErrors(err error) []response.ValidationError {
	return FormatValidationErrors(err)
}
