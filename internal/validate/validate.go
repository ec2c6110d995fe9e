// Package validate checks form input with go-playground/validator and turns
// failures into per-field messages suitable for re-rendering a form.
package validate

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

const (
	// FirstVehicleYear is the earliest model year accepted.
	FirstVehicleYear = 1886
	// MaxPasswordBytes is bcrypt's input limit, counted in bytes.
	MaxPasswordBytes = 72
)

var (
	v   = newValidator()
	now = time.Now
)

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(val, "hasdigit", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
	})
	mustRegister(val, "bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	mustRegister(val, "vehicleyear", func(fl validator.FieldLevel) bool {
		y, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && y >= FirstVehicleYear && y <= now().Year()+1
	})
	mustRegister(val, "price", func(fl validator.FieldLevel) bool {
		p, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && p >= 0
	})
	return val
}

func mustRegister(val *validator.Validate, tag string, fn validator.Func) {
	if err := val.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct validates s. On failure it returns Errors keyed by the field's form
// name, using the field's msg tag when present.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := Errors{}
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(t, fe)
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if m := f.Tag.Get("msg"); m != "" {
			return m
		}
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "bcryptlen":
		return "must be at most " + strconv.Itoa(MaxPasswordBytes) + " bytes"
	case "alphanum":
		return "may contain only letters and digits"
	case "number":
		return "must be a whole number"
	}
	return "is invalid"
}

// As extracts field errors from err.
func As(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
