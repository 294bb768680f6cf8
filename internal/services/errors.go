package services

import "errors"

// Sentinel errors shared by services and the repository layer. Handlers map
// them to HTTP status codes; everything else surfaces as a 500.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
