package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/hospital-task-points/internal/repository"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrTaskArchived        = errors.New("task is archived and does not accept submissions")
	ErrTaskAlreadyArchived = errors.New("task is already archived")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrDepartmentExists    = errors.New("department already exists")
	ErrInactiveUser        = errors.New("user account is inactive")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrSelfAction          = errors.New("cannot perform this action on your own account")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError is returned when a versioned write lost to a concurrent
// writer. Current holds the row as it is now stored.
type ConflictError struct {
	Entity  string
	Current any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s was modified by another request", e.Entity)
}

// Is lets errors.Is(err, repository.ErrVersionConflict) match.
func (e *ConflictError) Is(target error) bool {
	return target == repository.ErrVersionConflict
}
