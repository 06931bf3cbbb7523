package models

import "errors"

// Error taxonomy shared by the store, the ledger and the transport layer.
// Callers wrap these with context and match them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("store unavailable")
)
