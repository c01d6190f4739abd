package sweep

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	bookingRepo "chargehub/database/repository/booking"
	recordsRepo "chargehub/database/repository/records"
	"chargehub/models"
)

// SweepService runs one reconciliation pass: scan expired pending bookings,
// release each booking/slot pair atomically, report the outcome.
type SweepService interface {
	// Run executes a full pass at the given wall-clock instant. The clock is
	// injected so a pass is deterministic and testable. All store failures
	// are reflected in the returned error; nothing is ever left partially
	// committed.
	Run(ctx context.Context, now time.Time) (models.SweepResult, error)

	// LastResult returns the outcome of the most recent completed pass.
	LastResult() (models.SweepResult, bool)
}

// DefaultSweepService implements SweepService.
type DefaultSweepService struct {
	Repo    bookingRepo.BookingRepository
	Records recordsRepo.SweepRecordRepository // optional audit trail; may be nil
	Lease   PassLease                         // optional cross-process serialization; may be nil
	Logger  *zap.Logger

	mu   sync.Mutex
	last *models.SweepResult
}

func (s *DefaultSweepService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

func (s *DefaultSweepService) LastResult() (models.SweepResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return models.SweepResult{}, false
	}
	return *s.last, true
}

func (s *DefaultSweepService) storeLast(res models.SweepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &res
}
