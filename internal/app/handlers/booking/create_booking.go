package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	"staybnb/internal/app/fault"
	"staybnb/internal/app/outbox"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
	"staybnb/internal/domain/shared/money"
	domainuser "staybnb/internal/domain/user"
)

const (
	createBookingKey = "booking.create"
	bookListingKey   = "booking.book_listing"
)

// CreateBookingCommand is the direct create path. A client-supplied total
// price, when present, is trusted as-is; the convenience path below always
// recomputes server-side.
type CreateBookingCommand struct {
	GuestID    string
	ListingID  string
	CheckIn    string
	CheckOut   string
	TotalPrice *int64 // minor units, optional override
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) ListingLockKey() string { return c.ListingID }

// BookListingCommand is the convenience path: the total is always computed
// from nights times the listing's nightly rate.
type BookListingCommand struct {
	GuestID   string
	ListingID string
	CheckIn   string
	CheckOut  string
}

func (c BookListingCommand) Key() string { return bookListingKey }

func (c BookListingCommand) ListingLockKey() string { return c.ListingID }

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Locks      *ListingLocks
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.BookingRecord, error) {
	return h.create(ctx, createParams{
		guestID:    cmd.GuestID,
		listingID:  cmd.ListingID,
		checkIn:    cmd.CheckIn,
		checkOut:   cmd.CheckOut,
		totalPrice: cmd.TotalPrice,
	})
}

// HandleBookListing serves the convenience path with the same pipeline minus
// the price override.
func (h *CreateBookingHandler) HandleBookListing(ctx context.Context, cmd BookListingCommand) (*dto.BookingRecord, error) {
	return h.create(ctx, createParams{
		guestID:   cmd.GuestID,
		listingID: cmd.ListingID,
		checkIn:   cmd.CheckIn,
		checkOut:  cmd.CheckOut,
	})
}

type createParams struct {
	guestID    string
	listingID  string
	checkIn    string
	checkOut   string
	totalPrice *int64
}

func (h *CreateBookingHandler) create(ctx context.Context, p createParams) (*dto.BookingRecord, error) {
	if strings.TrimSpace(p.listingID) == "" || strings.TrimSpace(p.checkIn) == "" || strings.TrimSpace(p.checkOut) == "" {
		return nil, fault.Validationf("missing required fields")
	}
	dr, err := daterange.Parse(p.checkIn, p.checkOut)
	if err != nil {
		if errors.Is(err, daterange.ErrInvalidRange) {
			return nil, fault.Validationf("check-out must be after check-in")
		}
		return nil, fault.Validationf("invalid date format, use YYYY-MM-DD").Wrap(err)
	}

	// The listing lock must outlive the commit: a lock dropped before the
	// unit commits lets a second create read a pre-commit snapshot and
	// double-book. When the unit arrives via context the dispatch pipeline
	// holds the lock around the whole transaction; only the self-managed
	// path locks here, before the unit is begun, and releases after its
	// own commit.
	if _, fromContext := uow.FromContext(ctx); !fromContext && h.Locks != nil {
		release := h.Locks.Acquire(domainlistings.ListingID(p.listingID))
		defer release()
	}

	unit, ctx, managed, err := h.beginUnit(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	guest, err := unit.Users().ByID(ctx, domainuser.ID(p.guestID))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, fault.NotFoundf("user not found")
		}
		return nil, err
	}

	listingID := domainlistings.ListingID(p.listingID)
	listing, err := unit.Listings().ByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return nil, fault.NotFoundf("listing not found")
		}
		return nil, err
	}
	if !listing.Bookable() {
		return nil, fault.Conflictf("listing is not open for booking").WithBlockingStatus(string(listing.Status))
	}

	available, err := domainbooking.IsAvailable(ctx, unit.Bookings(), listingID, dr, domainbooking.DefaultExcludedStatuses)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fault.Conflictf("listing is not available for the selected dates")
	}

	total := domainbooking.TotalPrice(listing.NightlyRate, dr)
	if p.totalPrice != nil {
		total, err = money.New(*p.totalPrice, listing.NightlyRate.Currency)
		if err != nil {
			return nil, fault.Validationf("invalid total price").Wrap(err)
		}
		if total.Negative() {
			return nil, fault.Validationf("total price must not be negative")
		}
	}

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(uuid.NewString()),
		GuestID:   guest.ID,
		ListingID: listing.ID,
		Range:     dr,
		Total:     total,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, fault.Validationf("invalid booking").Wrap(err)
	}

	if err := unit.Bookings().Insert(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("booking created", "booking_id", b.ID, "listing_id", b.ListingID, "guest_id", b.GuestID, "range", b.Range.String())
	}
	record := dto.MapBookingRecord(b)
	return &record, nil
}

func (h *CreateBookingHandler) beginUnit(ctx context.Context) (uow.UnitOfWork, context.Context, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	if h.UoWFactory == nil {
		return nil, ctx, false, uow.ErrUnitOfWorkMissing
	}
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, false, err
	}
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		ctx = injector.InjectContext(ctx)
	}
	return unit, uow.ContextWithUnitOfWork(ctx, unit), true, nil
}

type bookListingAdapter struct {
	Inner *CreateBookingHandler
}

func (a bookListingAdapter) Handle(ctx context.Context, cmd BookListingCommand) (*dto.BookingRecord, error) {
	return a.Inner.HandleBookListing(ctx, cmd)
}

// BookListingHandler adapts the shared create pipeline to the convenience
// command for bus registration.
func BookListingHandler(inner *CreateBookingHandler) commands.Handler[BookListingCommand, *dto.BookingRecord] {
	return bookListingAdapter{Inner: inner}
}

var _ commands.Handler[CreateBookingCommand, *dto.BookingRecord] = (*CreateBookingHandler)(nil)
