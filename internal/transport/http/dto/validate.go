package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names so meta.field matches what the client sent.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("decision", validateDecision)
	_ = validate.RegisterValidation("role", validateSelfAssignableRole)
	_ = validate.RegisterValidation("waitlist_role", func(fl validator.FieldLevel) bool {
		return domain.IsWaitlistRole(fl.Field().String())
	})
	_ = validate.RegisterValidation("connection_answer", func(fl validator.FieldLevel) bool {
		return domain.IsConnectionAnswer(fl.Field().String())
	})
}

func validateDecision(fl validator.FieldLevel) bool {
	return domain.Decision(fl.Field().String()).Valid()
}

func validateSelfAssignableRole(fl validator.FieldLevel) bool {
	return domain.IsSelfAssignable(fl.Field().String())
}

// Validate runs struct tags on v and returns the first failure as a domain error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}
	return fieldError(verrs[0])
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	value, _ := fe.Value().(string)

	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "decision":
		return domain.ErrInvalidDecision(value)
	case "role", "waitlist_role":
		return domain.ErrInvalidRole(value)
	case "connection_answer":
		return domain.ErrInvalidConnectionStatus(value)
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	case "min":
		if field == "password" {
			return domain.ErrWeakPassword("must be at least " + fe.Param() + " characters")
		}
		return domain.ErrInvalidField(field, "must be at least "+fe.Param())
	case "max":
		return domain.ErrInvalidField(field, "must be at most "+fe.Param())
	case "gte":
		return domain.ErrInvalidField(field, "must be >= "+fe.Param())
	default:
		return domain.ErrInvalidField(field, "invalid")
	}
}
