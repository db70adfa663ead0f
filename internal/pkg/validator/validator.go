package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Call type validation
	validate.RegisterValidation("call_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		return t == "audio" || t == "video"
	})

	// Points transaction type validation
	validate.RegisterValidation("tx_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"transfer", "reward", "bonus", "system", "premium", "premium_gift"}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})

	// Username: 3-30 chars, alphanumeric plus underscore
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if len(name) < 3 || len(name) > 30 {
			return false
		}
		for _, r := range name {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns field error map
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fieldErrors[fe.Field()] = validationMessage(fe)
		}
	} else {
		fieldErrors["_"] = err.Error()
	}
	return fieldErrors
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "value is too small"
	case "max":
		return "value is too large"
	case "email":
		return "must be a valid email address"
	case "username":
		return "must be 3-30 characters, letters, digits and underscore only"
	case "call_type":
		return "must be audio or video"
	case "tx_type":
		return "unknown transaction type"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "invalid value"
	}
}
