package booking

import (
	"sync"

	domainlistings "staybnb/internal/domain/listings"
)

// ListingLocks serializes the availability-check-then-insert sequence per
// listing so two concurrent create requests for overlapping intervals cannot
// both pass the overlap probe.
type ListingLocks struct {
	mu    sync.Mutex
	locks map[domainlistings.ListingID]*sync.Mutex
}

func NewListingLocks() *ListingLocks {
	return &ListingLocks{locks: make(map[domainlistings.ListingID]*sync.Mutex)}
}

// Acquire blocks until the listing lock is held and returns the release
// function.
func (l *ListingLocks) Acquire(id domainlistings.ListingID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// AcquireKey adapts Acquire to the string keys the dispatch pipeline works
// with.
func (l *ListingLocks) AcquireKey(key string) func() {
	return l.Acquire(domainlistings.ListingID(key))
}
