package router

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "neighborconnect/internal/errors"
)

var (
	lettersSpacesRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	postalCodeRe    = regexp.MustCompile(`^[0-9\s-]{4,10}$`)
	phoneRe         = regexp.MustCompile(`^\+?[0-9][0-9\s().-]{6,19}$`)
	digitRe         = regexp.MustCompile(`\d`)
	letterRe        = regexp.MustCompile(`[a-zA-Z]`)
	specialRe       = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// CustomValidator wraps validator for Echo and reports failures as field
// messages keyed by the JSON name.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator registers the custom tags used by request types.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "lettersspaces", func(fl validator.FieldLevel) bool {
		return lettersSpacesRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "postalcode", func(fl validator.FieldLevel) bool {
		return postalCodeRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) >= 8 && digitRe.MatchString(s) && letterRe.MatchString(s) && specialRe.MatchString(s)
	})
	mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})

	return &CustomValidator{validator: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.BadRequest("Invalid request body")
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{Field: fieldPath(fe), Msg: message(fe)})
	}
	return apperrors.Validation(fields)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	// embedded request structs show up as a path segment
	for _, embedded := range []string{"SignupRequest.", "UpdateProfileRequest."} {
		ns = strings.TrimPrefix(ns, embedded)
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Enter a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), "'", ""))
	case "lettersspaces":
		return field + " must contain only letters and spaces"
	case "strongpassword":
		return "Password must be at least 8 characters and contain a letter, a number and a special character"
	case "postalcode":
		return "Invalid postal code format"
	case "phone":
		return "Enter a valid phone number"
	case "objectid":
		return "Invalid ID!"
	default:
		return field + " is invalid"
	}
}
