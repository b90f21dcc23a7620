package workspace

import "errors"

var (
	// ErrInvalidSlug indicates a workspace candidate failed the slug pattern.
	ErrInvalidSlug = errors.New("workspace must match [a-zA-Z0-9_-]{1,100}")

	// ErrReservedName indicates a workspace candidate is a reserved name.
	ErrReservedName = errors.New("workspace name is reserved")
)
