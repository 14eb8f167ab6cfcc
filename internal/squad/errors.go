package squad

import "errors"

// Validation failures returned by group and profile operations.
// All of them are recoverable; callers match with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyMember    = errors.New("already a member of this group")
	ErrGroupFull        = errors.New("group is full")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrMissingProfile   = errors.New("profile not created")
	ErrProfileExists    = errors.New("profile already exists")
	ErrNotMember        = errors.New("not a member of this group")
	ErrInvalidArgument  = errors.New("invalid argument")
)
