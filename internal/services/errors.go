package services

import "errors"

// Domain error kinds. Handlers map these to HTTP statuses via pkg/response;
// everything else surfaces as an internal server error. Each one is terminal
// for the request: nothing is retried, and every guard that produces one
// runs before any state is mutated.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
)
