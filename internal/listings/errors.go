package listings

import "errors"

var (
	// ErrInvalidArgument is returned for malformed input; validation happens
	// before any store call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyLiked is returned when addLike runs against a (listing, user)
	// pair already in the liked state.
	ErrAlreadyLiked = errors.New("user already likes this listing")
	// ErrNotLiked is returned when removeLike runs against a pair that is not
	// in the liked state.
	ErrNotLiked = errors.New("user does not like this listing")
	// ErrInconsistent reports an observed like-counter / fan-set mismatch.
	// It must never occur; it is surfaced loudly instead of repaired.
	ErrInconsistent = errors.New("like counter does not match fan set")
)
