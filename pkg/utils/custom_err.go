package utils

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPOINotFound      = errors.New("poi not found")
	ErrDatabaseError    = errors.New("database error")
	ErrPlannerFailure   = errors.New("planner returned unusable output")
	ErrEmbeddingFailure = errors.New("embedding provider error")
	ErrUnauthorized     = errors.New("unauthorized")
)
