package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Entitlement ledger errors
	ErrRequestNotPending = errors.New("request is not pending")
	ErrCodeNotFound      = errors.New("prepaid code not found")
	ErrCodeExhausted     = errors.New("prepaid code already used")
	ErrNothingToGrant    = errors.New("teacher has no units to grant")
	ErrNotEntitled       = errors.New("no active entitlement for this content")
)
