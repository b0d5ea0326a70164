package database

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// FieldError is one failed constraint.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) Message() string {
	switch e.Rule {
	case "required":
		return "this field is required"
	case "max":
		return "ensure this value has at most " + e.Param + " characters"
	case "slug":
		return "enter a valid slug consisting of letters, numbers, underscores or hyphens"
	case "email":
		return "enter a valid email address"
	case "ipv4":
		return "enter a valid IPv4 address"
	case "excludesall":
		return "must not contain any of " + strconv.Quote(e.Param)
	default:
		return "failed " + e.Rule + " validation"
	}
}

// ValidationErrors collects every failed constraint on a record.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns a field -> message map.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Message()
		}
	}
	return out
}

// Validate checks the field-level constraints declared on a catalog record.
// It returns ValidationErrors when any constraint fails.
func Validate(record interface{}) error {
	err := validatorInstance().Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", record, err)
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}
