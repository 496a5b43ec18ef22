package types

import "errors"

// Store errors.
var (
	ErrColumnNotFound = errors.New("column directory does not exist")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrTaskExists     = errors.New("task file already exists at destination")
)

// Record errors.
var (
	ErrEmptyDocument = errors.New("empty task document")
	ErrNotMapping    = errors.New("task document is not a mapping")
	ErrInvalidStatus = errors.New("invalid status")
)

// ErrInvalidSchema is returned by Schema.Validate.
var ErrInvalidSchema = errors.New("invalid schema")
