package domain

import "errors"

// Sentinel errors shared by services and handlers.
// Repos and services wrap them; handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrBusy         = errors.New("monitoring run already in progress")
)
