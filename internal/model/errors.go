package model

import "errors"

// Error kinds surfaced to the HTTP layer. Validation and integrity failures
// map to 400 responses; everything else is a collaborator failure and maps
// to 500. ErrMapping marks a single provider record that cannot be
// converted; it drops that record and never aborts a request.
var (
	ErrValidation = errors.New("validation error")
	ErrIntegrity  = errors.New("integrity error")
	ErrMapping    = errors.New("mapping error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
