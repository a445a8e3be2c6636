package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

func init() {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

// FieldError describes one rejected request field.
type FieldError struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input any      `json:"input"`
}

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return strings.Join(msgs, "; ")
}

// Struct validates the given struct using its validate tags.
// Tag failures are returned as *Error with one entry per field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{
			Type:  fe.Tag(),
			Loc:   location(fe.Namespace()),
			Msg:   message(fe),
			Input: fe.Value(),
		})
	}
	return out
}

// Body returns a single-entry *Error for a request body that could not be decoded.
func Body(msg string) *Error {
	return &Error{Fields: []FieldError{{Type: "json_invalid", Loc: []string{"body"}, Msg: msg}}}
}

// location turns "CreateAvatarRequest.topics[0]" into ["body", "topics[0]"].
func location(namespace string) []string {
	loc := []string{"body"}
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return append(loc, parts...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "notblank":
		return "Value must not be blank"
	case "email":
		return "value is not a valid email address"
	case "max":
		return fmt.Sprintf("Value should have at most %s items", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' check", fe.Tag())
	}
}
