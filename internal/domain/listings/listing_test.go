package listings

import (
	"errors"
	"testing"
	"time"

	"staybnb/internal/domain/shared/money"
)

func newTestListing(t *testing.T) *Listing {
	t.Helper()
	l, err := NewListing(CreateParams{
		ID:          "lst-1",
		HostID:      "host-1",
		Title:       "Loft near the river",
		Description: "Bright one-bedroom loft.",
		Location:    "Lisbon",
		NightlyRate: money.Must(12000, "USD"),
		CreatedAt:   time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	return l
}

func TestNewListingStartsPending(t *testing.T) {
	l := newTestListing(t)
	if l.Status != StatusPending {
		t.Fatalf("expected pending, got %s", l.Status)
	}
	if l.Bookable() {
		t.Fatal("pending listing must not be bookable")
	}
}

func TestNewListingValidation(t *testing.T) {
	base := CreateParams{
		Title:       "Loft",
		Description: "desc",
		Location:    "Lisbon",
		NightlyRate: money.Must(100, "USD"),
	}

	p := base
	p.Title = "   "
	if _, err := NewListing(p); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	p = base
	p.Location = ""
	if _, err := NewListing(p); !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}

	p = base
	p.NightlyRate = money.Money{Amount: -1, Currency: "USD"}
	if _, err := NewListing(p); !errors.Is(err, ErrNegativeRate) {
		t.Fatalf("expected ErrNegativeRate, got %v", err)
	}
}

func TestApproveActivates(t *testing.T) {
	l := newTestListing(t)
	l.Approve(time.Now())
	if l.Status != StatusActive || !l.Bookable() {
		t.Fatalf("expected active bookable listing, got %s", l.Status)
	}
}

func TestMarkEditedResetsActiveToPending(t *testing.T) {
	l := newTestListing(t)
	l.Approve(time.Now())
	l.MarkEdited(time.Now())
	if l.Status != StatusPending {
		t.Fatalf("expected edit to reset status to pending, got %s", l.Status)
	}

	l.Decline(time.Now())
	l.MarkEdited(time.Now())
	if l.Status != StatusInactive {
		t.Fatalf("expected inactive listing to stay inactive after edit, got %s", l.Status)
	}
}

func TestSetVisibility(t *testing.T) {
	l := newTestListing(t)
	if err := l.SetVisibility(StatusActive, time.Now()); !errors.Is(err, ErrAwaitingApproval) {
		t.Fatalf("expected ErrAwaitingApproval on pending listing, got %v", err)
	}

	l.Approve(time.Now())
	if err := l.SetVisibility(StatusInactive, time.Now()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if l.Status != StatusInactive {
		t.Fatalf("expected inactive, got %s", l.Status)
	}

	if err := l.SetVisibility(StatusPending, time.Now()); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for pending target, got %v", err)
	}
}
