package service

import (
	"fmt"
	"strings"

	"restoflow/internal/domain"
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, fmt.Sprintf(format, args...))
}

// requireText fails on the first blank value, in argument order.
func requireText(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return validationf("%s is required", pairs[i])
		}
	}
	return nil
}

func requirePositive(name string, v int64) error {
	if v <= 0 {
		return validationf("%s must be positive", name)
	}
	return nil
}
