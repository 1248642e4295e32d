// Package validation applies the field rules of customer requests and turns
// violations into domain.ValidationErrors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

// PhonePattern is an optional leading '+' followed by 10 to 15 digits
var PhonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// messages maps json field name and failed tag to the text shown to callers
var messages = map[string]map[string]string{
	"firstName": {
		"notblank": "First name is required",
		"max":      "First name must not exceed 50 characters",
	},
	"lastName": {
		"notblank": "Last name is required",
		"max":      "Last name must not exceed 50 characters",
	},
	"email": {
		"notblank": "Email is required",
		"email":    "Email must be valid",
	},
	"phone": {
		"notblank": "Phone number is required",
		"phone":    "Phone number must be in international format",
	},
	"address": {
		"max": "Address must not exceed 200 characters",
	},
	"status": {
		"customer_status": "Status must be one of ACTIVE, INACTIVE, SUSPENDED",
	},
}

// Validator validates request structs using their `validate` tags
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the customer-specific rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return PhonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "customer_status", func(fl validator.FieldLevel) bool {
		return domain.CustomerStatus(fl.Field().String()).IsValid()
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Validate checks every field of payload and returns nil or
// domain.ValidationErrors holding one message per violated field.
func (v *Validator) Validate(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	var result domain.ValidationErrors
	for _, fe := range fieldErrs {
		result.Add(fe.Field(), message(fe.Field(), fe.Tag()))
	}
	return result
}

func message(field, tag string) string {
	if byTag, ok := messages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return fmt.Sprintf("%s is invalid", field)
}

// InvalidStatus reports a status value outside the defined set
func InvalidStatus() domain.ValidationErrors {
	var errs domain.ValidationErrors
	errs.Add("status", message("status", "customer_status"))
	return errs
}
