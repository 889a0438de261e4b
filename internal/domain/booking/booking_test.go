package booking

import (
	"errors"
	"testing"
	"time"

	"staybnb/internal/domain/shared/daterange"
	"staybnb/internal/domain/shared/money"
)

func testParams(t *testing.T) CreateParams {
	t.Helper()
	dr, err := daterange.Parse("2025-06-01", "2025-06-05")
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	return CreateParams{
		ID:        "bkg-1",
		GuestID:   "guest-1",
		ListingID: "lst-1",
		Range:     dr,
		Total:     money.Must(48000, "USD"),
		CreatedAt: time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewBookingStartsPending(t *testing.T) {
	b, err := NewBooking(testParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	events := b.PendingEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(events))
	}
	if events[0].EventName() != "booking.requested" {
		t.Fatalf("unexpected event: %s", events[0].EventName())
	}
}

func TestNewBookingValidation(t *testing.T) {
	params := testParams(t)
	params.GuestID = ""
	if _, err := NewBooking(params); !errors.Is(err, ErrGuestRequired) {
		t.Fatalf("expected ErrGuestRequired, got %v", err)
	}

	params = testParams(t)
	params.ListingID = "  "
	if _, err := NewBooking(params); !errors.Is(err, ErrListingRequired) {
		t.Fatalf("expected ErrListingRequired, got %v", err)
	}

	params = testParams(t)
	params.Total = money.Money{Amount: -100, Currency: "USD"}
	if _, err := NewBooking(params); !errors.Is(err, ErrNegativeTotal) {
		t.Fatalf("expected ErrNegativeTotal, got %v", err)
	}
}

func TestTotalPrice(t *testing.T) {
	dr, err := daterange.Parse("2025-06-01", "2025-06-05")
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	got := TotalPrice(money.Must(12000, "USD"), dr)
	if got.Amount != 48000 {
		t.Fatalf("expected 48000 for four nights, got %d", got.Amount)
	}
}

func TestConfirmRequiresPending(t *testing.T) {
	b, err := NewBooking(testParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Now()
	if err := b.Confirm(now); err != nil {
		t.Fatalf("confirm pending: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}
	if err := b.Confirm(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second confirm, got %v", err)
	}
	if err := b.Reject(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState rejecting confirmed booking, got %v", err)
	}
}

func TestRejectRequiresPending(t *testing.T) {
	b, err := NewBooking(testParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Reject(time.Now()); err != nil {
		t.Fatalf("reject pending: %v", err)
	}
	if b.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", b.Status)
	}
}

func TestCancellable(t *testing.T) {
	b, err := NewBooking(testParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Cancellable() {
		t.Fatal("pending booking should be cancellable")
	}
	b.SetStatus(StatusConfirmed, time.Now())
	if b.Cancellable() {
		t.Fatal("confirmed booking should not be cancellable")
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("  Confirmed ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got)
	}
	if _, err := ParseStatus("approved"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
