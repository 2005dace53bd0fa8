package discussion

import (
	"errors"
)

var (
	// ErrNotFound means the post, comment or notification does not exist
	// or is not visible to the requester.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the requester is neither the resource's author
	// nor an admin.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyLiked is the like ratchet: each user may like a post or
	// comment at most once, and there is no unlike path.
	ErrAlreadyLiked = errors.New("already liked")
	// ErrValidation covers empty bodies and structurally invalid
	// requests (e.g. replying to a reply).
	ErrValidation = errors.New("validation failed")
)
