// File: database/repository/booking/errors.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store failure taxonomy. All repository errors wrap exactly one of these,
// so callers can branch with errors.Is without knowing Firestore details.
var (
	// ErrStoreUnavailable marks transient connectivity failures; the pass
	// is safe to retry on the next cadence tick.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrQuery marks a failed or malformed read; no writes were attempted.
	ErrQuery = errors.New("query failed")

	// ErrPartialState marks a referenced slot document missing or
	// undecodable at commit time. The whole group is rejected.
	ErrPartialState = errors.New("slot state missing or inconsistent")

	// ErrCommitConflict marks a grouped write rejected because of a
	// concurrent modification. Nothing was applied.
	ErrCommitConflict = errors.New("commit rejected by concurrent modification")
)

// classifyScan maps a Firestore read error onto the taxonomy.
func classifyScan(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
}

// classifyCommit maps a transaction error onto the taxonomy. Taxonomy
// errors raised inside the transaction body pass through unchanged.
func classifyCommit(err error) error {
	if errors.Is(err, ErrPartialState) {
		return err
	}
	switch status.Code(err) {
	case codes.Aborted, codes.FailedPrecondition:
		return fmt.Errorf("%w: %v", ErrCommitConflict, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return fmt.Errorf("%w: %v", ErrCommitConflict, err)
	}
}
