package storage

import "errors"

// Storage errors shared by the order stores and the config file store.
var (
	// ErrNotFound is returned when a requested record or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedJSON is returned when a file or request payload is not valid JSON.
	ErrMalformedJSON = errors.New("malformed json")

	// ErrDataAccess is returned when the datastore cannot be reached or a query fails.
	ErrDataAccess = errors.New("data access error")

	// ErrIO is returned for unexpected filesystem failures.
	ErrIO = errors.New("io failure")
)
