package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	isbnPattern  = regexp.MustCompile(`^[0-9Xx\- ]+$`)
)

// RegisterValidators installs the custom rules and reports fields by their
// form names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("isbnchars", func(fl validator.FieldLevel) bool {
			return isbnPattern.MatchString(fl.Field().String())
		})
	})
}

// FieldErrors maps each failing form field to a readable message.
// Errors that are not validation failures, such as a number that does not
// parse, come back under the "_form" key.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_form"] = "Some values could not be read. Check numeric fields."
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "isbnchars":
		return "Only digits, X and hyphens are allowed."
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
