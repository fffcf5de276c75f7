package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldErrors map[string]string

// FormField is the key used when an error does not belong to one field.
const FormField = "_"

// FromBindError maps a bind or validation error to form-field messages.
// dst is the bound struct pointer; its form tags name the fields.
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			key := fieldKey(dst, fe.StructField())
			if _, seen := out[key]; seen {
				continue
			}
			out[key] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	// type mismatches and malformed bodies
	out[FormField] = "The submitted form is invalid."
	return out
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t == nil {
		return strings.ToLower(structField)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag, _, _ := strings.Cut(f.Tag.Get("form"), ",")
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		return "Must be at least " + param + " characters."
	case "max":
		return "Must be at most " + param + " characters."
	case "numeric":
		return "Digits only."
	case "oneof":
		return "Please choose one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "payment_method":
		return "Please select a payment method."
	case "bank":
		return "Please select your bank."
	default:
		return "Invalid value."
	}
}
