package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound = errors.New("game not found")
)
