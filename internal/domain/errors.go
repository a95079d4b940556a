package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Job errors
	ErrMsgJobRecordNotFound = "job record not found"
	ErrMsgUnknownJob        = "unknown job"

	// Cooldown errors
	ErrMsgOnCooldown = "action on cooldown"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Configuration errors
	ErrMsgInvalidCatalog = "invalid job catalog"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Job errors
	ErrJobRecordNotFound = errors.New(ErrMsgJobRecordNotFound)
	ErrUnknownJob        = errors.New(ErrMsgUnknownJob)

	// Cooldown errors
	ErrOnCooldown = errors.New(ErrMsgOnCooldown)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Configuration errors
	ErrInvalidCatalog = errors.New(ErrMsgInvalidCatalog)
)
