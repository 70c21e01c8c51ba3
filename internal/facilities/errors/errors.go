package errors

import "errors"

var (
	ErrLabNotFound   = errors.New("lab not found")
	ErrClubNotFound  = errors.New("club not found")
	ErrInvalidID     = errors.New("invalid ID format")
	ErrDuplicateName = errors.New("name already in use")
)
