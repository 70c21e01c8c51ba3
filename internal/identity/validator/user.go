package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(msgs, "; ")
}

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) (*UserValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("user_role", validateRole); err != nil {
		return nil, fmt.Errorf("failed to register user_role validation: %w", err)
	}

	return &UserValidator{
		validate: v,
		logger:   log,
	}, nil
}

func validateRole(fl validator.FieldLevel) bool {
	return model.Role(fl.Field().String()).Valid()
}

func (uv *UserValidator) ValidateRegistration(user *model.User) error {
	if user.Password == "" {
		return ValidationErrors{{Field: "password", Message: "password is required"}}
	}
	if err := uv.validate.Struct(user); err != nil {
		return uv.translate(err)
	}
	return nil
}

func (uv *UserValidator) ValidateUpdate(update *model.UserUpdate) error {
	if err := uv.validate.Struct(update); err != nil {
		return uv.translate(err)
	}
	return nil
}

func (uv *UserValidator) translate(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		uv.logger.Error("unexpected validation error type", "error", err)
		return ValidationErrors{{Field: "unknown", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, ValidationError{
			Field:   strings.ToLower(fieldErr.Field()),
			Message: messageForTag(fieldErr),
		})
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "mongodb":
		return "must be a valid object ID"
	case "user_role":
		return "must be a recognized role"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
