package booking

import (
	"context"
	"testing"
	"time"

	"staybnb/internal/app/fault"
	domainbooking "staybnb/internal/domain/booking"
)

func TestCheckAvailability(t *testing.T) {
	f := newCreateFixture(t)
	if err := f.create("guest-1", "lst-1", "2025-06-01", "2025-06-05"); err != nil {
		t.Fatalf("create: %v", err)
	}
	probe := &CheckAvailabilityHandler{UoWFactory: f.handler.UoWFactory}

	res, err := probe.Handle(context.Background(), CheckAvailabilityQuery{ListingID: "lst-1", CheckIn: "2025-06-03", CheckOut: "2025-06-08"})
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if res.Available {
		t.Fatal("overlapping dates should report unavailable")
	}

	res, err = probe.Handle(context.Background(), CheckAvailabilityQuery{ListingID: "lst-1", CheckIn: "2025-06-05", CheckOut: "2025-06-09"})
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !res.Available {
		t.Fatal("back-to-back dates should report available")
	}
}

func TestCheckAvailabilityCountsEveryStatus(t *testing.T) {
	f := newCreateFixture(t)
	rec, err := f.handler.Handle(context.Background(), CreateBookingCommand{
		GuestID:   "guest-1",
		ListingID: "lst-1",
		CheckIn:   "2025-06-01",
		CheckOut:  "2025-06-05",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.bookings.UpdateStatus(context.Background(), domainbooking.BookingID(rec.ID), domainbooking.StatusCancelled, time.Now()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	probe := &CheckAvailabilityHandler{UoWFactory: f.handler.UoWFactory}
	res, err := probe.Handle(context.Background(), CheckAvailabilityQuery{ListingID: "lst-1", CheckIn: "2025-06-02", CheckOut: "2025-06-04"})
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if res.Available {
		t.Fatal("public probe counts cancelled bookings, expected unavailable")
	}
}

func TestCheckAvailabilityValidation(t *testing.T) {
	f := newCreateFixture(t)
	probe := &CheckAvailabilityHandler{UoWFactory: f.handler.UoWFactory}
	_, err := probe.Handle(context.Background(), CheckAvailabilityQuery{ListingID: "lst-1", CheckIn: "2025-06-05", CheckOut: "2025-06-01"})
	if fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListUserBookingsNewestFirst(t *testing.T) {
	f := newCreateFixture(t)
	if err := f.create("guest-1", "lst-1", "2025-06-01", "2025-06-05"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.create("guest-1", "lst-1", "2025-07-01", "2025-07-05"); err != nil {
		t.Fatalf("create: %v", err)
	}

	list := &ListUserBookingsHandler{UoWFactory: f.handler.UoWFactory}
	res, err := list.Handle(context.Background(), ListUserBookingsQuery{UserID: "guest-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(res.Items))
	}
	if res.Items[0].CreatedAt.Before(res.Items[1].CreatedAt) {
		t.Fatal("expected newest booking first")
	}
}

func TestGetBookingNotFound(t *testing.T) {
	f := newCreateFixture(t)
	get := &GetBookingHandler{UoWFactory: f.handler.UoWFactory}
	_, err := get.Handle(context.Background(), GetBookingQuery{BookingID: "missing"})
	if fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
