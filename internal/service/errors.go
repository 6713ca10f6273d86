package service

import (
	"errors"
	"fmt"

	"jobboard/api/internal/repository"
)

// Messages of these errors are safe to return to clients as-is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrProtected          = errors.New("record is protected")
)

// ErrDefaultRoleMissing means the database was never seeded with the USER role.
var ErrDefaultRoleMissing = errors.New("default role missing")

// mapStoreErr translates repository sentinels into service errors.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRoleNotFound),
		errors.Is(err, repository.ErrPermissionNotFound),
		errors.Is(err, repository.ErrJobNotFound),
		errors.Is(err, repository.ErrResumeNotFound),
		errors.Is(err, repository.ErrSubscriberNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, repository.ErrInvalidReference):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
