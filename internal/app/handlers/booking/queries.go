package booking

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"staybnb/internal/app/dto"
	"staybnb/internal/app/fault"
	handlersupport "staybnb/internal/app/handlers/support"
	"staybnb/internal/app/queries"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
	domainuser "staybnb/internal/domain/user"
)

const (
	getBookingKey        = "booking.get"
	listUserBookingsKey  = "booking.list_by_user"
	checkAvailabilityKey = "booking.check_availability"
)

// GetBookingQuery fetches one booking with denormalized guest and listing
// names.
type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.BookingDetail, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return dto.BookingDetail{}, fault.NotFoundf("booking not found")
		}
		return dto.BookingDetail{}, err
	}

	guest, err := unit.Users().ByID(execCtx, b.GuestID)
	if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
		return dto.BookingDetail{}, err
	}
	listing, err := unit.Listings().ByID(execCtx, b.ListingID)
	if err != nil && !errors.Is(err, domainlistings.ErrNotFound) {
		return dto.BookingDetail{}, err
	}
	return dto.MapBookingDetail(b, guest, listing), nil
}

// ListUserBookingsQuery lists bookings owned by one user, newest first.
type ListUserBookingsQuery struct {
	UserID string
}

func (q ListUserBookingsQuery) Key() string { return listUserBookingsKey }

type ListUserBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListUserBookingsHandler) Handle(ctx context.Context, q ListUserBookingsQuery) (dto.BookingCollection, error) {
	userID := strings.TrimSpace(q.UserID)
	if userID == "" {
		return dto.BookingCollection{}, fault.Validationf("user id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByGuest(execCtx, domainuser.ID(userID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	if h.Logger != nil {
		h.Logger.Debug("user bookings listed", "user_id", userID, "count", len(bookings))
	}
	return dto.MapBookingCollection(bookings), nil
}

// CheckAvailabilityQuery is the unauthenticated availability probe. Unlike
// the create paths it considers every stored booking regardless of status,
// matching the public endpoint's historical behavior.
type CheckAvailabilityQuery struct {
	ListingID string
	CheckIn   string
	CheckOut  string
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.AvailabilityResult, error) {
	if strings.TrimSpace(q.CheckIn) == "" || strings.TrimSpace(q.CheckOut) == "" {
		return dto.AvailabilityResult{}, fault.Validationf("check_in and check_out dates required")
	}
	dr, err := daterange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		if errors.Is(err, daterange.ErrInvalidRange) {
			return dto.AvailabilityResult{}, fault.Validationf("check-out must be after check-in")
		}
		return dto.AvailabilityResult{}, fault.Validationf("invalid date format, use YYYY-MM-DD").Wrap(err)
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	available, err := domainbooking.IsAvailable(execCtx, unit.Bookings(), domainlistings.ListingID(q.ListingID), dr, nil)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	return dto.AvailabilityResult{Available: available}, nil
}

var (
	_ queries.Handler[GetBookingQuery, dto.BookingDetail]             = (*GetBookingHandler)(nil)
	_ queries.Handler[ListUserBookingsQuery, dto.BookingCollection]   = (*ListUserBookingsHandler)(nil)
	_ queries.Handler[CheckAvailabilityQuery, dto.AvailabilityResult] = (*CheckAvailabilityHandler)(nil)
)
