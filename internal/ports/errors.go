package ports

import "errors"

// Sentinel errors shared across repository implementations so that
// services and handlers can branch without importing adapters.
var (
	ErrNotFound    = errors.New("not found")
	ErrRouteExists = errors.New("route already exists for user and date")
)
