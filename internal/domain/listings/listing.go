package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybnb/internal/domain/shared/money"
	"staybnb/internal/domain/user"
)

var (
	ErrTitleRequired       = errors.New("listings: title is required")
	ErrDescriptionRequired = errors.New("listings: description is required")
	ErrLocationRequired    = errors.New("listings: location is required")
	ErrNegativeRate        = errors.New("listings: nightly rate must be non-negative")
	ErrInvalidStatus       = errors.New("listings: invalid status")
	ErrAwaitingApproval    = errors.New("listings: listing is awaiting admin approval")
	ErrNotFound            = errors.New("listings: not found")
)

type ListingID string

type Status string

const (
	// StatusPending marks a listing awaiting admin approval. New listings
	// and edited active listings land here.
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Listing is a bookable accommodation owned by a host. Only the fields the
// booking core reads (owner, nightly rate, status) carry invariants; the
// rest is descriptive content.
type Listing struct {
	ID          ListingID
	HostID      user.ID
	Title       string
	Description string
	Location    string
	NightlyRate money.Money
	Amenities   []string
	ImageURL    string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
	ListByHost(ctx context.Context, hostID user.ID) ([]*Listing, error)
	ListAll(ctx context.Context) ([]*Listing, error)
}

type CreateParams struct {
	ID          ListingID
	HostID      user.ID
	Title       string
	Description string
	Location    string
	NightlyRate money.Money
	Amenities   []string
	ImageURL    string
	CreatedAt   time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, ErrLocationRequired
	}
	if params.NightlyRate.Negative() {
		return nil, ErrNegativeRate
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Listing{
		ID:          params.ID,
		HostID:      params.HostID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Location:    strings.TrimSpace(params.Location),
		NightlyRate: params.NightlyRate,
		Amenities:   append([]string(nil), params.Amenities...),
		ImageURL:    strings.TrimSpace(params.ImageURL),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Bookable reports whether guests may reserve this listing.
func (l *Listing) Bookable() bool {
	return l.Status == StatusActive
}

// Approve moves a listing into circulation after moderation.
func (l *Listing) Approve(now time.Time) {
	l.Status = StatusActive
	l.UpdatedAt = now.UTC()
}

// Decline parks a moderated listing out of circulation.
func (l *Listing) Decline(now time.Time) {
	l.Status = StatusInactive
	l.UpdatedAt = now.UTC()
}

// MarkEdited resets an active listing back to pending so its changes go
// through moderation again.
func (l *Listing) MarkEdited(now time.Time) {
	if l.Status == StatusActive {
		l.Status = StatusPending
	}
	l.UpdatedAt = now.UTC()
}

// SetVisibility lets the host toggle an approved listing between active and
// inactive. Listings still pending approval cannot be toggled.
func (l *Listing) SetVisibility(target Status, now time.Time) error {
	if target != StatusActive && target != StatusInactive {
		return ErrInvalidStatus
	}
	if l.Status == StatusPending {
		return ErrAwaitingApproval
	}
	l.Status = target
	l.UpdatedAt = now.UTC()
	return nil
}
