package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybnb/internal/app/fault"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
)

func (f *createFixture) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := f.handler.UoWFactory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin unit: %v", err)
	}
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func TestCancelPendingBookingDeletesRow(t *testing.T) {
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

	cancel := &CancelBookingHandler{Outbox: f.outbox}
	res, err := cancel.Handle(f.unitContext(t), CancelBookingCommand{GuestID: "guest-1", BookingID: rec.ID})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.BookingID != rec.ID {
		t.Fatalf("unexpected result id %s", res.BookingID)
	}
	if _, err := f.bookings.ByID(context.Background(), domainbooking.BookingID(rec.ID)); !errors.Is(err, domainbooking.ErrNotFound) {
		t.Fatalf("expected booking gone, got %v", err)
	}
}

func TestCancelRejectsNonOwner(t *testing.T) {
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

	cancel := &CancelBookingHandler{}
	_, err = cancel.Handle(f.unitContext(t), CancelBookingCommand{GuestID: "someone-else", BookingID: rec.ID})
	if fault.KindOf(err) != fault.KindAuthorization {
		t.Fatalf("expected authorization failure, got %v", err)
	}
	if _, err := f.bookings.ByID(context.Background(), domainbooking.BookingID(rec.ID)); err != nil {
		t.Fatalf("booking must survive a denied cancel: %v", err)
	}
}

func TestCancelRejectsNonPending(t *testing.T) {
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
	if err := f.bookings.UpdateStatus(context.Background(), domainbooking.BookingID(rec.ID), domainbooking.StatusConfirmed, time.Now()); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	cancel := &CancelBookingHandler{}
	_, err = cancel.Handle(f.unitContext(t), CancelBookingCommand{GuestID: "guest-1", BookingID: rec.ID})
	if fault.KindOf(err) != fault.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	fe, ok := fault.Of(err)
	if !ok || fe.BlockingStatus != string(domainbooking.StatusConfirmed) {
		t.Fatalf("expected blocking status confirmed, got %+v", fe)
	}
	got, err := f.bookings.ByID(context.Background(), domainbooking.BookingID(rec.ID))
	if err != nil {
		t.Fatalf("lookup after denied cancel: %v", err)
	}
	if got.Status != domainbooking.StatusConfirmed {
		t.Fatalf("status must be unchanged, got %s", got.Status)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newCreateFixture(t)
	cancel := &CancelBookingHandler{}
	_, err := cancel.Handle(f.unitContext(t), CancelBookingCommand{GuestID: "guest-1", BookingID: "missing"})
	if fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
