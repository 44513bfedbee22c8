package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("schedule item not found")
	ErrItemAccessDenied = errors.New("access denied to modify or delete this schedule item")

	ErrTemplateNotFound     = errors.New("schedule template not found")
	ErrTemplateAccessDenied = errors.New("access denied to this schedule template")
	ErrTemplateAlreadySaved = errors.New("schedule template has already been saved")
	ErrNoCandidates         = errors.New("no workout templates available for generation")
	ErrExportFailed         = errors.New("failed to export calendar")
)

// ErrValidation wraps ErrValidationFailed with a human readable reason.
func ErrValidation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, reason)
}
