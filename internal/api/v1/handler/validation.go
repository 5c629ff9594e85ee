package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"linkhub/internal/service"

	"github.com/go-playground/validator/v10"
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// NewValidator returns a validator that reports JSON field names and knows
// the username rules.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return !service.IsReservedUsername(fl.Field().String())
	})
	return v
}

// validate runs struct validation and converts the first failure into a 400.
func validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return badRequest("", "Invalid request")
	}
	fe := fieldErrs[0]
	return badRequest(fe.Field(), validationMessage(fe))
}

func validationMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL"
	case "uuid":
		return "Invalid id"
	case "hexcolor":
		return label + " must be a hex color"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "notreserved":
		return "This username is reserved"
	}
	return "Invalid " + fe.Field()
}

// fieldLabel turns "embedUrl" into "Embed url" for messages.
func fieldLabel(field string) string {
	if field == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
