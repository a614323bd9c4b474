// Package validation configures the struct validator shared by the provider
// decoders and the HTTP layer.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their json names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// FirstFieldError extracts the path and failing rule of the first violation.
// The path drops the root struct name: "events[3].x".
func FirstFieldError(err error) (field, rule string, ok bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "", "", false
	}
	fe := fieldErrs[0]
	path := fe.Namespace()
	if idx := strings.IndexByte(path, '.'); idx >= 0 {
		path = path[idx+1:]
	}
	rule = fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return path, rule, true
}
