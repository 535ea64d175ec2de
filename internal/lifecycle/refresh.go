package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
)

// Synchronizer keeps the per-user cached booking collection. After every
// successful mutation the whole collection is replaced from the server;
// fields are never merged, so no optimistic value can outlive a failed
// partial mutation.
type Synchronizer struct {
	svc BookingService

	mu    sync.RWMutex
	cache map[string]*snapshot
}

type snapshot struct {
	bookings  []*booking.Booking
	fetchedAt time.Time
	stale     bool
}

func NewSynchronizer(svc BookingService) *Synchronizer {
	return &Synchronizer{svc: svc, cache: make(map[string]*snapshot)}
}

// Resync replaces the user's cached collection with the server's. On failure
// the previous snapshot is kept but marked stale, so the caller can show
// last-known data without pretending it is current.
func (s *Synchronizer) Resync(ctx context.Context, userID string) ([]*booking.Booking, error) {
	bookings, err := s.svc.GetMyBookings(ctx, userID)
	if err != nil {
		s.mu.Lock()
		if snap, ok := s.cache[userID]; ok {
			snap.stale = true
		}
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.cache[userID] = &snapshot{bookings: bookings, fetchedAt: time.Now().UTC()}
	s.mu.Unlock()
	return bookings, nil
}

// Snapshot returns the cached collection and whether it is stale. ok is
// false when the user has never been synced.
func (s *Synchronizer) Snapshot(userID string) (bookings []*booking.Booking, stale, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.cache[userID]
	if !ok {
		return nil, false, false
	}
	return snap.bookings, snap.stale, true
}
