package sweep

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingRepo "chargehub/database/repository/booking"
	"chargehub/models"
)

// fakeStore is an in-memory stand-in for the Firestore repository with the
// same all-or-nothing release semantics: the group is validated before any
// document is mutated.
type fakeStore struct {
	bookings map[string]models.Booking
	slots    map[string]models.Slot

	scanErr    error
	releaseErr error

	scanCalls    int
	releaseCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[string]models.Booking),
		slots:    make(map[string]models.Slot),
	}
}

func slotKey(stationID, slotID string) string {
	return stationID + "/" + slotID
}

func (f *fakeStore) FindExpiredPending(ctx context.Context, now time.Time) ([]models.Booking, error) {
	f.scanCalls++
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var expired []models.Booking
	for _, b := range f.bookings {
		if b.IsPending() && b.ExpiredBy(now) {
			expired = append(expired, b)
		}
	}
	return expired, nil
}

func (f *fakeStore) ReleaseExpired(ctx context.Context, expired []models.Booking, now time.Time) (int, int, error) {
	f.releaseCalls++
	if f.releaseErr != nil {
		return 0, 0, f.releaseErr
	}

	var stage []models.Booking
	skipped := 0
	for _, b := range expired {
		current, ok := f.bookings[b.ID]
		if !ok || !current.IsPending() {
			skipped++
			continue
		}
		if _, ok := f.slots[slotKey(current.StationID, current.SlotID)]; !ok {
			return 0, 0, fmt.Errorf("%w: slot %s/%s referenced by booking %s",
				bookingRepo.ErrPartialState, current.StationID, current.SlotID, b.ID)
		}
		stage = append(stage, current)
	}

	for _, b := range stage {
		b.Status = models.BookingStatusExpired
		b.UpdatedAt = now
		f.bookings[b.ID] = b

		slot := f.slots[slotKey(b.StationID, b.SlotID)]
		slot.Status = models.SlotStatusAvailable
		slot.BookedBy = nil
		slot.BookingID = nil
		slot.BookedAt = nil
		slot.ExpiresAt = nil
		slot.UpdatedAt = now
		f.slots[slotKey(b.StationID, b.SlotID)] = slot
	}
	return len(stage), skipped, nil
}

// addPair seeds a booked slot and its booking in one go.
func (f *fakeStore) addPair(bookingID, stationID, slotID, status string, expiresAt *time.Time) {
	userID := "driver-" + bookingID
	f.bookings[bookingID] = models.Booking{
		ID:        bookingID,
		StationID: stationID,
		SlotID:    slotID,
		UserID:    userID,
		Status:    status,
		CreatedAt: time.Now().Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
	f.slots[slotKey(stationID, slotID)] = models.Slot{
		StationID: stationID,
		ID:        slotID,
		Status:    models.SlotStatusBooked,
		BookedBy:  &userID,
		BookingID: &bookingID,
		ExpiresAt: expiresAt,
	}
}

type recordingHistory struct {
	records []models.SweepRecord
	err     error
}

func (r *recordingHistory) Insert(ctx context.Context, rec models.SweepRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *recordingHistory) Latest(ctx context.Context, limit int) ([]models.SweepRecord, error) {
	return r.records, nil
}

type stubLease struct {
	acquired   bool
	acquireErr error
	released   int
}

func (l *stubLease) Acquire(ctx context.Context) (bool, error) { return l.acquired, l.acquireErr }
func (l *stubLease) Release(ctx context.Context) error {
	l.released++
	return nil
}

func newService(store *fakeStore) *DefaultSweepService {
	return &DefaultSweepService{
		Repo:   store,
		Logger: zap.NewNop(),
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestRunReleasesExpiredPendingPair(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("b1", "S1", "A1", models.BookingStatusPending, timePtr(now.Add(-5*time.Minute)))

	svc := newService(store)
	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Scanned)
	assert.Equal(t, 1, res.Released)
	assert.Equal(t, 0, res.Skipped)

	b := store.bookings["b1"]
	assert.Equal(t, models.BookingStatusExpired, b.Status)
	assert.Equal(t, now, b.UpdatedAt)

	s := store.slots[slotKey("S1", "A1")]
	assert.Equal(t, models.SlotStatusAvailable, s.Status)
	assert.Nil(t, s.BookedBy)
	assert.Nil(t, s.BookingID)
	assert.Nil(t, s.BookedAt)
	assert.Nil(t, s.ExpiresAt)
	assert.Equal(t, now, s.UpdatedAt)
}

func TestRunLeavesFutureDeadlineAlone(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("b2", "S1", "A2", models.BookingStatusPending, timePtr(now.Add(5*time.Minute)))

	svc := newService(store)
	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Scanned)
	assert.Equal(t, 0, res.Released)
	assert.Equal(t, 0, store.releaseCalls, "empty pass must not issue a write call")

	assert.Equal(t, models.BookingStatusPending, store.bookings["b2"].Status)
	assert.Equal(t, models.SlotStatusBooked, store.slots[slotKey("S1", "A2")].Status)
}

func TestRunNeverTouchesNonPendingBookings(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lapsed := timePtr(now.Add(-time.Hour))

	store := newFakeStore()
	store.addPair("confirmed", "S1", "A1", models.BookingStatusConfirmed, lapsed)
	store.addPair("cancelled", "S1", "A2", models.BookingStatusCancelled, lapsed)
	store.addPair("expired", "S1", "A3", models.BookingStatusExpired, lapsed)

	svc := newService(store)
	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Released)
	assert.Equal(t, models.BookingStatusConfirmed, store.bookings["confirmed"].Status)
	assert.Equal(t, models.BookingStatusCancelled, store.bookings["cancelled"].Status)
	for _, key := range []string{"S1/A1", "S1/A2", "S1/A3"} {
		assert.Equal(t, models.SlotStatusBooked, store.slots[key].Status, "slot %s must be untouched", key)
	}
}

func TestRunMixedBatchReleasesOnlyEligible(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("lapsed-1", "S1", "A1", models.BookingStatusPending, timePtr(now.Add(-time.Minute)))
	store.addPair("lapsed-2", "S2", "B1", models.BookingStatusPending, timePtr(now)) // deadline == now counts as expired
	store.addPair("future", "S2", "B2", models.BookingStatusPending, timePtr(now.Add(time.Minute)))
	store.addPair("no-deadline", "S2", "B3", models.BookingStatusPending, nil)
	store.addPair("confirmed", "S1", "A2", models.BookingStatusConfirmed, timePtr(now.Add(-time.Minute)))

	svc := newService(store)
	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 2, res.Released)
	assert.Equal(t, models.BookingStatusExpired, store.bookings["lapsed-1"].Status)
	assert.Equal(t, models.BookingStatusExpired, store.bookings["lapsed-2"].Status)
	assert.Equal(t, models.BookingStatusPending, store.bookings["future"].Status)
	assert.Equal(t, models.BookingStatusPending, store.bookings["no-deadline"].Status)
	assert.Equal(t, models.BookingStatusConfirmed, store.bookings["confirmed"].Status)
}

func TestRunIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("b1", "S1", "A1", models.BookingStatusPending, timePtr(now.Add(-5*time.Minute)))

	svc := newService(store)
	first, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 1, first.Released)

	bookingsAfterFirst := store.bookings["b1"]
	slotAfterFirst := store.slots[slotKey("S1", "A1")]

	second, err := svc.Run(context.Background(), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Scanned)
	assert.Equal(t, 0, second.Released)
	assert.Equal(t, bookingsAfterFirst, store.bookings["b1"])
	assert.Equal(t, slotAfterFirst, store.slots[slotKey("S1", "A1")])
}

func TestRunRejectedGroupLeavesNoPartialChanges(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lapsed := timePtr(now.Add(-time.Minute))

	store := newFakeStore()
	store.addPair("ok", "S1", "A1", models.BookingStatusPending, lapsed)
	store.addPair("broken", "S1", "A2", models.BookingStatusPending, lapsed)
	delete(store.slots, slotKey("S1", "A2")) // simulate manual slot deletion

	svc := newService(store)
	res, err := svc.Run(context.Background(), now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingRepo.ErrPartialState))
	assert.Equal(t, 0, res.Released)

	// The healthy pair in the same group must not have been applied either.
	assert.Equal(t, models.BookingStatusPending, store.bookings["ok"].Status)
	assert.Equal(t, models.SlotStatusBooked, store.slots[slotKey("S1", "A1")].Status)
	assert.Equal(t, models.BookingStatusPending, store.bookings["broken"].Status)
}

func TestRunScanFailureAbortsWithoutWrites(t *testing.T) {
	store := newFakeStore()
	store.scanErr = fmt.Errorf("%w: listener timeout", bookingRepo.ErrStoreUnavailable)

	svc := newService(store)
	_, err := svc.Run(context.Background(), time.Now().UTC())
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingRepo.ErrStoreUnavailable))
	assert.Equal(t, 0, store.releaseCalls, "failed scan must not attempt any write")
}

func TestRunCommitConflictSurfacesAndRetriesNextPass(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("b1", "S1", "A1", models.BookingStatusPending, timePtr(now.Add(-time.Minute)))
	store.releaseErr = fmt.Errorf("%w: contention", bookingRepo.ErrCommitConflict)

	svc := newService(store)
	_, err := svc.Run(context.Background(), now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingRepo.ErrCommitConflict))

	// Booking is still pending, so the next pass selects it again.
	store.releaseErr = nil
	res, err := svc.Run(context.Background(), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)
	assert.Equal(t, models.BookingStatusExpired, store.bookings["b1"].Status)
}

func TestRunRecordsPassHistory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("b1", "S1", "A1", models.BookingStatusPending, timePtr(now.Add(-time.Minute)))

	history := &recordingHistory{}
	svc := newService(store)
	svc.Records = history

	_, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, now, rec.RanAt)
	assert.Equal(t, 1, rec.Released)
	assert.Empty(t, rec.Error)
}

func TestRunRecordsFailureDetail(t *testing.T) {
	store := newFakeStore()
	store.scanErr = fmt.Errorf("%w: bad filter", bookingRepo.ErrQuery)

	history := &recordingHistory{}
	svc := newService(store)
	svc.Records = history

	_, err := svc.Run(context.Background(), time.Now().UTC())
	require.Error(t, err)
	require.Len(t, history.records, 1)
	assert.Contains(t, history.records[0].Error, "query failed")
}

func TestRunHistoryFailureDoesNotFailPass(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("b1", "S1", "A1", models.BookingStatusPending, timePtr(now.Add(-time.Minute)))

	svc := newService(store)
	svc.Records = &recordingHistory{err: errors.New("mongo down")}

	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)
}

func TestRunSkipsWhenLeaseHeldElsewhere(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	svc.Lease = &stubLease{acquired: false}

	res, err := svc.Run(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Scanned)
	assert.Equal(t, 0, store.scanCalls, "a pass without the lease must not touch the store")
}

func TestRunProceedsWhenLeaseStoreIsDown(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addPair("b1", "S1", "A1", models.BookingStatusPending, timePtr(now.Add(-time.Minute)))

	svc := newService(store)
	svc.Lease = &stubLease{acquireErr: errors.New("redis down")}

	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)
}

func TestRunReleasesLeaseAfterPass(t *testing.T) {
	store := newFakeStore()
	lease := &stubLease{acquired: true}
	svc := newService(store)
	svc.Lease = lease

	_, err := svc.Run(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, lease.released)
}

func TestLastResultTracksMostRecentPass(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newService(store)

	_, ok := svc.LastResult()
	assert.False(t, ok, "no result before the first pass")

	_, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	res, ok := svc.LastResult()
	require.True(t, ok)
	assert.Equal(t, now, res.StartedAt)
}

// stalePendingRepo returns scan rows that no longer satisfy the predicate,
// as a misbehaving store adapter might.
type stalePendingRepo struct {
	fakeStore
	stale []models.Booking
}

func (r *stalePendingRepo) FindExpiredPending(ctx context.Context, now time.Time) ([]models.Booking, error) {
	return r.stale, nil
}

func TestRunFiltersIneligibleScanRows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &stalePendingRepo{
		fakeStore: *newFakeStore(),
		stale: []models.Booking{
			{ID: "confirmed", Status: models.BookingStatusConfirmed, ExpiresAt: timePtr(now.Add(-time.Minute))},
			{ID: "future", Status: models.BookingStatusPending, ExpiresAt: timePtr(now.Add(time.Minute))},
		},
	}

	svc := &DefaultSweepService{Repo: repo, Logger: zap.NewNop()}
	res, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 0, res.Released)
	assert.Equal(t, 0, repo.releaseCalls, "nothing eligible, so no write call")
}
