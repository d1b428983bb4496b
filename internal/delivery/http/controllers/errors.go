package controllers

import (
	"errors"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

// isExpectedError reports whether err is part of the client-facing error
// taxonomy. Expected errors are written as 4xx responses without being logged
// at error level; everything else is an internal failure.
func isExpectedError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, domain.ErrDuplicateEmail) ||
		errors.Is(err, domain.ErrCapacityExceeded) ||
		errors.Is(err, domain.ErrRateLimited)
}
