package domain

import "errors"

var (
	// ErrUnknownRoute is returned when no element of a route string could be
	// resolved against the catalog.
	ErrUnknownRoute = errors.New("route contains no resolvable elements")

	// ErrCatalogUnavailable is returned when resolution is attempted before
	// an AIRAC catalog has been loaded.
	ErrCatalogUnavailable = errors.New("airac catalog not loaded")

	// ErrNotFound is returned by repositories and services when a lookup
	// matches nothing.
	ErrNotFound = errors.New("not found")
)
