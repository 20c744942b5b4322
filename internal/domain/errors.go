package domain

import "errors"

// Business errors surfaced by handlers
var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrPlanNotFound        = errors.New("server plan not found")
	ErrServerNotFound      = errors.New("server not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotOwner            = errors.New("resource belongs to another user")
	ErrUnknownAction       = errors.New("unknown server action")
)
