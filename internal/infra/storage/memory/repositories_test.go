package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
	"staybnb/internal/domain/shared/money"
)

func storedBooking(t *testing.T, id, listingID, in, out string, status domainbooking.Status) *domainbooking.Booking {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		GuestID:   "guest-1",
		ListingID: domainlistings.ListingID(listingID),
		Range:     dr,
		Total:     money.Must(10000, "USD"),
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("build booking: %v", err)
	}
	b.Status = status
	b.ClearEvents()
	return b
}

func TestFindOverlappingHonorsExclusions(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	if err := repo.Insert(ctx, storedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", domainbooking.StatusCancelled)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	probe, err := daterange.Parse("2025-06-02", "2025-06-04")
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}

	got, err := repo.FindOverlapping(ctx, "lst-1", probe, nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatal("cancelled booking must match with no exclusions")
	}

	got, err = repo.FindOverlapping(ctx, "lst-1", probe, []domainbooking.Status{domainbooking.StatusCancelled})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatalf("excluded status must not match, got %s", got.ID)
	}
}

func TestFindOverlappingScopesByListing(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	if err := repo.Insert(ctx, storedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", domainbooking.StatusPending)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	probe, err := daterange.Parse("2025-06-02", "2025-06-04")
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	got, err := repo.FindOverlapping(ctx, "lst-other", probe, nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatal("bookings on other listings must not match")
	}
}

func TestInsertBumpsVersion(t *testing.T) {
	repo := NewBookingRepository()
	b := storedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", domainbooking.StatusPending)
	if err := repo.Insert(context.Background(), b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b.Version != 1 {
		t.Fatalf("expected version 1 after insert, got %d", b.Version)
	}
	if err := repo.UpdateStatus(context.Background(), b.ID, domainbooking.StatusConfirmed, time.Now()); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.ByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Version != 2 {
		t.Fatalf("expected version 2 after status update, got %d", got.Version)
	}
}

func TestByIDReturnsClone(t *testing.T) {
	repo := NewBookingRepository()
	b := storedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", domainbooking.StatusPending)
	if err := repo.Insert(context.Background(), b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first, err := repo.ByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	first.Status = domainbooking.StatusRejected

	second, err := repo.ByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if second.Status != domainbooking.StatusPending {
		t.Fatal("mutating a returned booking must not affect the store")
	}
}

func TestDeleteMissingBooking(t *testing.T) {
	repo := NewBookingRepository()
	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, domainbooking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListingRepositoryRoundTrip(t *testing.T) {
	repo := NewListingRepository()
	ctx := context.Background()
	l, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          "lst-1",
		HostID:      "host-1",
		Title:       "Loft",
		Description: "desc",
		Location:    "Faro",
		NightlyRate: money.Must(5000, "USD"),
	})
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ByID(ctx, "lst-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Title != "Loft" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	owned, err := repo.ListByHost(ctx, "host-1")
	if err != nil {
		t.Fatalf("list by host: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(owned))
	}

	if err := repo.Delete(ctx, "lst-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.ByID(ctx, "lst-1"); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
