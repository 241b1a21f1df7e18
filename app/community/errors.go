package community

import "errors"

var (
	// ErrGuest is returned when a guest tries to change anything. No backend
	// call is made.
	ErrGuest = errors.New("community: sign in required")
	// ErrEmpty is returned when the trimmed input is empty. Handlers treat
	// it as a silent no-op.
	ErrEmpty = errors.New("community: nothing to submit")
	// ErrNotOwner is returned when a user touches a post or comment they did
	// not write.
	ErrNotOwner = errors.New("community: not the author")
	// ErrSubmitInFlight rejects a second post submission from a session
	// while the first is still running.
	ErrSubmitInFlight = errors.New("community: a post is already being submitted")
)
