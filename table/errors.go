package table

import (
	"errors"
	"fmt"
)

var (
	// ErrExists is returned by Add when a key equal (under the
	// container's case policy) to an already-present entry is inserted.
	ErrExists = errors.New("rhmap: key exists")

	// ErrNotFound is returned by Find and Delete when no matching entry
	// is present.
	ErrNotFound = errors.New("rhmap: key not found")

	// ErrOutOfMemory is returned by New and by any operation that
	// triggers a migration (Add, Delete) when the Allocator refuses a
	// request.
	ErrOutOfMemory = errors.New("rhmap: out of memory")
)

// require panics on a violated precondition. Precondition violations are
// programmer bugs (oversized keys, out-of-range bit counts, operating on
// a closed container) and are never recovered from.
func require(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
