package hostops

import (
	"context"
	"testing"
	"time"

	"staybnb/internal/app/fault"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
	"staybnb/internal/domain/shared/money"
	domainuser "staybnb/internal/domain/user"
	"staybnb/internal/infra/storage/memory"
)

type hostFixture struct {
	factory  memory.Factory
	bookings *memory.BookingRepository
	listings *memory.ListingRepository
	users    *memory.UserRepository
}

func newHostFixture(t *testing.T) *hostFixture {
	t.Helper()
	f := &hostFixture{
		bookings: memory.NewBookingRepository(),
		listings: memory.NewListingRepository(),
		users:    memory.NewUserRepository(),
	}
	f.factory = memory.Factory{
		BookingRepo:  f.bookings,
		ListingsRepo: f.listings,
		UsersRepo:    f.users,
	}
	f.seedUser(t, "host-1", "harriet", domainuser.RoleHost)
	f.seedUser(t, "guest-1", "dana", domainuser.RoleGuest)
	f.seedListing(t, "lst-1", "host-1", 10000)
	return f
}

func (f *hostFixture) seedUser(t *testing.T, id, username string, role domainuser.Role) {
	t.Helper()
	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := f.users.Save(context.Background(), u); err != nil {
		t.Fatalf("save user: %v", err)
	}
}

func (f *hostFixture) seedListing(t *testing.T, id, hostID string, rate int64) {
	t.Helper()
	l, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ListingID(id),
		HostID:      domainuser.ID(hostID),
		Title:       "Host listing",
		Description: "desc",
		Location:    "Porto",
		NightlyRate: money.Must(rate, "USD"),
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	l.Approve(time.Now())
	if err := f.listings.Save(context.Background(), l); err != nil {
		t.Fatalf("save listing: %v", err)
	}
}

func (f *hostFixture) seedBooking(t *testing.T, id, listingID string, in, out string, total int64, status domainbooking.Status) {
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
		Total:     money.Must(total, "USD"),
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("build booking: %v", err)
	}
	b.ClearEvents()
	if err := f.bookings.Insert(context.Background(), b); err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	if status != domainbooking.StatusPending {
		if err := f.bookings.UpdateStatus(context.Background(), b.ID, status, time.Now()); err != nil {
			t.Fatalf("set status: %v", err)
		}
	}
}

func (f *hostFixture) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin unit: %v", err)
	}
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func TestApproveConfirmsPendingBooking(t *testing.T) {
	f := newHostFixture(t)
	f.seedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", 40000, domainbooking.StatusPending)

	h := &DecideBookingHandler{}
	res, err := h.HandleApprove(f.unitContext(t), ApproveBookingCommand{HostID: "host-1", BookingID: "bkg-1"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.Status != string(domainbooking.StatusConfirmed) {
		t.Fatalf("expected confirmed, got %s", res.Status)
	}
	got, err := f.bookings.ByID(context.Background(), "bkg-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Status != domainbooking.StatusConfirmed {
		t.Fatalf("status not persisted, got %s", got.Status)
	}
}

func TestApproveRejectsNonOwner(t *testing.T) {
	f := newHostFixture(t)
	f.seedUser(t, "host-2", "ines", domainuser.RoleHost)
	f.seedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", 40000, domainbooking.StatusPending)

	h := &DecideBookingHandler{}
	_, err := h.HandleApprove(f.unitContext(t), ApproveBookingCommand{HostID: "host-2", BookingID: "bkg-1"})
	if fault.KindOf(err) != fault.KindAuthorization {
		t.Fatalf("expected authorization failure, got %v", err)
	}
	got, err := f.bookings.ByID(context.Background(), "bkg-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Status != domainbooking.StatusPending {
		t.Fatalf("status must be unchanged, got %s", got.Status)
	}
}

func TestDecideRequiresPendingBooking(t *testing.T) {
	f := newHostFixture(t)
	f.seedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", 40000, domainbooking.StatusConfirmed)

	h := &DecideBookingHandler{}
	_, err := h.HandleReject(f.unitContext(t), RejectBookingCommand{HostID: "host-1", BookingID: "bkg-1"})
	if fault.KindOf(err) != fault.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	fe, ok := fault.Of(err)
	if !ok || fe.BlockingStatus != string(domainbooking.StatusConfirmed) {
		t.Fatalf("expected blocking status confirmed, got %+v", fe)
	}
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	f := newHostFixture(t)
	f.seedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", 40000, domainbooking.StatusPending)

	h := &UpdateBookingStatusHandler{}
	_, err := h.Handle(f.unitContext(t), UpdateBookingStatusCommand{HostID: "host-1", BookingID: "bkg-1", Status: "approved"})
	if fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	res, err := h.Handle(f.unitContext(t), UpdateBookingStatusCommand{HostID: "host-1", BookingID: "bkg-1", Status: "completed"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Status != string(domainbooking.StatusCompleted) {
		t.Fatalf("expected completed, got %s", res.Status)
	}
}

func TestEarningsSumsConfirmedOnly(t *testing.T) {
	f := newHostFixture(t)
	f.seedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", 40000, domainbooking.StatusConfirmed)
	f.seedBooking(t, "bkg-2", "lst-1", "2025-07-01", "2025-07-03", 20000, domainbooking.StatusConfirmed)
	f.seedBooking(t, "bkg-3", "lst-1", "2025-08-01", "2025-08-03", 99999, domainbooking.StatusPending)
	f.seedBooking(t, "bkg-4", "lst-1", "2025-09-01", "2025-09-03", 11111, domainbooking.StatusRejected)

	h := &HostEarningsHandler{UoWFactory: f.factory}
	res, err := h.Handle(context.Background(), HostEarningsQuery{HostID: "host-1"})
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if res.TotalEarnings.Amount != 60000 {
		t.Fatalf("expected 60000, got %d", res.TotalEarnings.Amount)
	}
}

func TestEarningsEmptyHost(t *testing.T) {
	f := newHostFixture(t)
	h := &HostEarningsHandler{UoWFactory: f.factory}
	res, err := h.Handle(context.Background(), HostEarningsQuery{HostID: "host-1"})
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if res.TotalEarnings.Amount != 0 {
		t.Fatalf("expected zero earnings, got %d", res.TotalEarnings.Amount)
	}
}

func TestListHostBookingsFiltersByStatus(t *testing.T) {
	f := newHostFixture(t)
	f.seedBooking(t, "bkg-1", "lst-1", "2025-06-01", "2025-06-05", 40000, domainbooking.StatusConfirmed)
	f.seedBooking(t, "bkg-2", "lst-1", "2025-07-01", "2025-07-03", 20000, domainbooking.StatusPending)

	h := &ListHostBookingsHandler{UoWFactory: f.factory}
	res, err := h.Handle(context.Background(), ListHostBookingsQuery{HostID: "host-1", Status: "confirmed"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 confirmed booking, got %d", len(res.Items))
	}

	res, err = h.Handle(context.Background(), ListHostBookingsQuery{HostID: "host-1", Status: "all"})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(res.Items))
	}
}
