// Package validation gates registration input before anything is persisted.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orbis-events/registration-service/internal/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations under json names so the UI can address form fields
	// directly (e.g. "attendees[2].name").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Check returns every violation at once as a field-path → message map; an
// empty map means the request may proceed. Nothing is short-circuited, so
// callers can show all errors together.
func Check(req dto.RegistrationRequest) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(req)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["request"] = "invalid request"
		return errs
	}

	for _, fe := range verrs {
		errs[fieldPath(fe)] = message(fe)
	}
	return errs
}

// fieldPath strips the root struct name from the namespace, leaving paths
// like "company.name" or "attendees[1].designation".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eq":
		return "must be accepted"
	default:
		return fmt.Sprintf("is invalid (%s)", fe.Tag())
	}
}
