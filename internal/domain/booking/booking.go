package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
	"staybnb/internal/domain/shared/events"
	"staybnb/internal/domain/shared/money"
	"staybnb/internal/domain/user"
)

var (
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrListingRequired = errors.New("booking: listing id required")
	ErrNegativeTotal   = errors.New("booking: total price must not be negative")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrInvalidStatus   = errors.New("booking: unknown status")
	ErrNotFound        = errors.New("booking: not found")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	// StatusCompleted is reserved for post-stay bookkeeping; no transition
	// produces it yet.
	StatusCompleted Status = "completed"
)

// ParseStatus validates a raw status string against the enumerated set.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// Booking reserves one listing for one guest over a half-open date range.
type Booking struct {
	ID        BookingID
	GuestID   user.ID
	ListingID listings.ListingID
	Range     daterange.DateRange
	Total     money.Money
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Insert(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id BookingID) error
	UpdateStatus(ctx context.Context, id BookingID, status Status, now time.Time) error
	ListByGuest(ctx context.Context, guestID user.ID) ([]*Booking, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Booking, error)
	ListByListings(ctx context.Context, listingIDs []listings.ListingID) ([]*Booking, error)
	// FindOverlapping returns any stored booking on the listing whose range
	// intersects dr and whose status is not in exclude.
	FindOverlapping(ctx context.Context, listingID listings.ListingID, dr daterange.DateRange, exclude []Status) (*Booking, error)
}

type CreateParams struct {
	ID        BookingID
	GuestID   user.ID
	ListingID listings.ListingID
	Range     daterange.DateRange
	Total     money.Money
	CreatedAt time.Time
}

// NewBooking builds a pending booking and records its requested event.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.GuestID)) == "" {
		return nil, ErrGuestRequired
	}
	if strings.TrimSpace(string(params.ListingID)) == "" {
		return nil, ErrListingRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Total.Negative() {
		return nil, ErrNegativeTotal
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		GuestID:   params.GuestID,
		ListingID: params.ListingID,
		Range:     params.Range,
		Total:     params.Total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, Range: b.Range, Total: b.Total, At: now})
	return b, nil
}

// TotalPrice computes nights times nightly rate.
func TotalPrice(nightlyRate money.Money, dr daterange.DateRange) money.Money {
	return nightlyRate.Multiply(int64(dr.Nights()))
}

// Confirm is the host approval transition, allowed from pending only.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, Range: b.Range, Total: b.Total, At: b.UpdatedAt})
	return nil
}

// Reject is the host refusal transition, allowed from pending only.
func (b *Booking) Reject(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusRejected
	b.UpdatedAt = now.UTC()
	b.Record(BookingRejected{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

// Cancellable reports whether the owning guest may still withdraw the
// booking. Only pending bookings can be cancelled; cancellation removes the
// record entirely.
func (b *Booking) Cancellable() bool {
	return b.Status == StatusPending
}

// SetStatus overwrites the status with an already-validated value. Used by
// the host booking edit path, which does not follow the regular transitions.
func (b *Booking) SetStatus(status Status, now time.Time) {
	b.Status = status
	b.UpdatedAt = now.UTC()
}
