package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
	domainuser "staybnb/internal/domain/user"
)

// ListingRepository is an in-memory listing store.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	clone := *listing
	return &clone, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *listing
	r.items[listing.ID] = &clone
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ListingRepository) ListByHost(ctx context.Context, hostID domainuser.ID) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainlistings.Listing, 0)
	for _, listing := range r.items {
		if listing.HostID == hostID {
			clone := *listing
			matches = append(matches, &clone)
		}
	}
	sortListings(matches)
	return matches, nil
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		clone := *listing
		matches = append(matches, &clone)
	}
	sortListings(matches)
	return matches, nil
}

func sortListings(ls []*domainlistings.Listing) {
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
			return ls[i].ID < ls[j].ID
		}
		return ls[i].CreatedAt.Before(ls[j].CreatedAt)
	})
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (r *BookingRepository) Insert(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *booking
	clone.Version++
	r.items[booking.ID] = &clone
	booking.Version = clone.Version
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id domainbooking.BookingID, status domainbooking.Status, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.items[id]
	if !ok {
		return domainbooking.ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = now.UTC()
	booking.Version++
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID domainuser.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.GuestID == guestID {
			clone := *booking
			matches = append(matches, &clone)
		}
	}
	sortBookings(matches)
	return matches, nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	return r.ListByListings(ctx, []domainlistings.ListingID{listingID})
}

func (r *BookingRepository) ListByListings(ctx context.Context, listingIDs []domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[domainlistings.ListingID]struct{}, len(listingIDs))
	for _, id := range listingIDs {
		wanted[id] = struct{}{}
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if _, ok := wanted[booking.ListingID]; ok {
			clone := *booking
			matches = append(matches, &clone)
		}
	}
	sortBookings(matches)
	return matches, nil
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, listingID domainlistings.ListingID, dr daterange.DateRange, exclude []domainbooking.Status) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	excluded := make(map[domainbooking.Status]struct{}, len(exclude))
	for _, status := range exclude {
		excluded[status] = struct{}{}
	}
	for _, booking := range r.items {
		if booking.ListingID != listingID {
			continue
		}
		if _, skip := excluded[booking.Status]; skip {
			continue
		}
		if booking.Range.Overlaps(dr) {
			clone := *booking
			return &clone, nil
		}
	}
	return nil, nil
}

func sortBookings(bs []*domainbooking.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].ID < bs[j].ID
		}
		return bs[i].CreatedAt.After(bs[j].CreatedAt)
	})
}
