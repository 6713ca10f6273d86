package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrResumeNotFound     = errors.New("resume not found")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrDuplicate          = errors.New("duplicate record")
	// ErrInvalidReference means a referenced record does not exist or was deleted.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// classify turns constraint violations into repository sentinels.
func classify(err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrDuplicate
	case isForeignKeyViolation(err):
		return ErrInvalidReference
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}
