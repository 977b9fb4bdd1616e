package heapcore

import "github.com/pkg/errors"

// Sentinel errors for the Try* API. Grounded on cznic/exp/lldb's
// ErrILSEQ/AllocStats error-reporting style (falloc.go): a small set
// of named causes, wrapped with context via github.com/pkg/errors
// rather than ad hoc fmt.Errorf strings.
var (
	// ErrCapacityTooSmall is returned by TryInit when the region is
	// too small to hold even one block (plus, for the explicit
	// variant, one link node).
	ErrCapacityTooSmall = errors.New("heapcore: capacity too small for one block")

	// ErrInvalidRequest is returned when a request size is zero where
	// zero is a rejection rather than a free-equivalent.
	ErrInvalidRequest = errors.New("heapcore: invalid request size")

	// ErrRequestTooLarge is returned when a request exceeds
	// Config.MaxRequestSize.
	ErrRequestTooLarge = errors.New("heapcore: request exceeds maximum size")

	// ErrOutOfMemory is returned when no free block satisfies a
	// first-fit search.
	ErrOutOfMemory = errors.New("heapcore: no block satisfies request")

	// ErrNotInitialized is returned when an operation other than Init
	// is attempted before the allocator has a region.
	ErrNotInitialized = errors.New("heapcore: allocator not initialized")

	// ErrInvariantViolation names the class of the causes below.
	// TryValidate does not return it: it returns one of those causes
	// wrapped with a message, which errors.Cause recovers.
	ErrInvariantViolation = errors.New("heapcore: invariant violation")

	// Causes unwrapped from ErrInvariantViolation by TryValidate.
	ErrTilingMismatch      = errors.New("heapcore: block sizes do not tile the region")
	ErrFreeListMismatch    = errors.New("heapcore: free-list length disagrees with block walk")
	ErrUndersizedFreeBlock = errors.New("heapcore: free block smaller than one link node")
	ErrFreeListBackLink    = errors.New("heapcore: free-list back-link is inconsistent")
)

// wrapViolation produces the wrapped error TryValidate returns for a
// given cause, preserving errors.Cause(err) == cause.
func wrapViolation(cause error, msg string) error {
	return errors.Wrap(cause, msg)
}
