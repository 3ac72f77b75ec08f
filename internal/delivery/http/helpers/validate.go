package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages shared by request DTOs.
const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
	MsgNull     = "This field may not be null."
)

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Merge copies every message of other into f.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

// Validator is implemented by request DTOs with rules struct tags cannot express.
// Validate returns nil or an empty map when the DTO is valid.
type Validator interface {
	Validate() FieldErrors
}

// Valuer is implemented by wrapper types so struct tags validate the wrapped value.
type Valuer interface {
	ValidationValue() any
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// RegisterValuer lets struct tags see through the wrapper types given as samples.
func RegisterValuer(samples ...Valuer) {
	types := make([]any, len(samples))
	for i, s := range samples {
		types[i] = s
	}
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if v, ok := field.Interface().(Valuer); ok {
			return v.ValidationValue()
		}
		return nil
	}, types...)
}

// ValidateStruct runs the validate struct tags of dest and translates failures into FieldErrors.
func ValidateStruct(dest any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(dest)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("non_field_errors", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "notblank":
		return MsgBlank
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	default:
		return "Invalid value."
	}
}

// DecodeAndValidate decodes the JSON request body into dest, runs its struct tags and,
// if dest implements Validator, its Validate method. Unknown fields are ignored.
// On failure it writes a 400 JSON error and returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return Check(w, dest)
}

// Check validates an already populated DTO and writes a validation error when it fails.
func Check(w http.ResponseWriter, dest any) bool {
	errs := ValidateStruct(dest)
	if v, ok := dest.(Validator); ok {
		errs.Merge(v.Validate())
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return false
	}
	return true
}
