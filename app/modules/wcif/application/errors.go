package wcifservice

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested round activity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGroupsExist is returned when a round activity already has child
	// activities. It matches ErrNotFound so callers of AddGroupsToEvent can
	// treat both the same way.
	ErrGroupsExist = fmt.Errorf("%w: round activity already has groups", ErrNotFound)

	// ErrInvalidGroupCount is returned for group counts outside [1, MaxGroups].
	ErrInvalidGroupCount = errors.New("invalid group count")
)
