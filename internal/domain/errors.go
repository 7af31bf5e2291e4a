package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
)

// ErrorClass names the taxonomy bucket an error belongs to.
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "storage_error"
	}
}
