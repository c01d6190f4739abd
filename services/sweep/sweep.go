package sweep

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/models"
)

// Run performs one scan-then-commit reconciliation pass.
//
// The pass is idempotent: a booking released in an earlier pass no longer
// matches the pending predicate, so re-running with no interleaved writes is
// a no-op. An aborted commit leaves every booking pending, and the next
// scheduled pass picks it up again.
func (s *DefaultSweepService) Run(ctx context.Context, now time.Time) (models.SweepResult, error) {
	res := models.SweepResult{StartedAt: now}

	if s.Lease != nil {
		acquired, err := s.Lease.Acquire(ctx)
		if err != nil {
			// Lease store trouble must not stop reconciliation; idempotence
			// covers the rare overlapping pass.
			s.logger().Warn("sweep: pass lease unavailable, proceeding without it", zap.Error(err))
		} else if !acquired {
			s.logger().Info("sweep: another pass holds the lease, skipping")
			res.FinishedAt = time.Now().UTC()
			s.storeLast(res)
			return res, nil
		} else {
			defer func() {
				if err := s.Lease.Release(context.WithoutCancel(ctx)); err != nil {
					s.logger().Warn("sweep: failed to release pass lease", zap.Error(err))
				}
			}()
		}
	}

	expired, err := s.Repo.FindExpiredPending(ctx, now)
	if err != nil {
		return s.finish(ctx, res, err)
	}
	res.Scanned = len(expired)

	// The store already filters on status and deadline; this guards against
	// a repository handing back something it should not have.
	eligible := make([]models.Booking, 0, len(expired))
	for _, b := range expired {
		if b.IsPending() && b.ExpiredBy(now) {
			eligible = append(eligible, b)
		}
	}

	if len(eligible) == 0 {
		// No write call at all for an empty pass.
		return s.finish(ctx, res, nil)
	}

	released, skipped, err := s.Repo.ReleaseExpired(ctx, eligible, now)
	if err != nil {
		return s.finish(ctx, res, err)
	}
	res.Released = released
	res.Skipped = skipped
	return s.finish(ctx, res, nil)
}

// finish closes out the pass: one summary log line, an optional audit
// record, and the cached last result. The error is returned for callers
// that want it, but the scheduler trigger ignores it by design.
func (s *DefaultSweepService) finish(ctx context.Context, res models.SweepResult, runErr error) (models.SweepResult, error) {
	res.FinishedAt = time.Now().UTC()

	if runErr != nil {
		s.logger().Error("sweep: pass failed, bookings remain pending for retry",
			zap.Int("scanned", res.Scanned),
			zap.Error(runErr))
	} else {
		s.logger().Info("sweep: processed expired bookings",
			zap.Int("scanned", res.Scanned),
			zap.Int("released", res.Released),
			zap.Int("skipped", res.Skipped))
	}

	if s.Records != nil {
		rec := models.SweepRecord{
			ID:       uuid.New().String(),
			RanAt:    res.StartedAt,
			Duration: res.FinishedAt.Sub(res.StartedAt),
			Scanned:  res.Scanned,
			Released: res.Released,
			Skipped:  res.Skipped,
		}
		if runErr != nil {
			rec.Error = runErr.Error()
		}
		if err := s.Records.Insert(context.WithoutCancel(ctx), rec); err != nil {
			s.logger().Warn("sweep: failed to record pass history", zap.Error(err))
		}
	}

	s.storeLast(res)
	return res, runErr
}
