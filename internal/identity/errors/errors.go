package errors

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidID          = errors.New("invalid user ID format")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOTPNotFound        = errors.New("verification code not found or expired")
	ErrOTPMismatch        = errors.New("verification code does not match")
)
