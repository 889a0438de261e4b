package hostops

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"staybnb/internal/app/dto"
	"staybnb/internal/app/fault"
	handlersupport "staybnb/internal/app/handlers/support"
	"staybnb/internal/app/policies"
	"staybnb/internal/app/queries"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	domainuser "staybnb/internal/domain/user"
)

const listHostBookingsKey = "host.bookings.list"

const allStatusesFilter = "all"

// ListHostBookingsQuery rolls up bookings across every listing the host
// owns, optionally filtered by status.
type ListHostBookingsQuery struct {
	HostID string
	Status string
}

func (q ListHostBookingsQuery) Key() string { return listHostBookingsKey }

type ListHostBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListHostBookingsHandler) Handle(ctx context.Context, q ListHostBookingsQuery) (dto.HostBookingCollection, error) {
	hostID := strings.TrimSpace(q.HostID)
	if hostID == "" {
		return dto.HostBookingCollection{}, fault.Validationf("host id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HostBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	owned, err := unit.Listings().ListByHost(execCtx, domainuser.ID(hostID))
	if err != nil {
		return dto.HostBookingCollection{}, err
	}
	byID := make(map[domainlistings.ListingID]*domainlistings.Listing, len(owned))
	ids := make([]domainlistings.ListingID, 0, len(owned))
	for _, l := range owned {
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}

	bookings, err := unit.Bookings().ListByListings(execCtx, ids)
	if err != nil {
		return dto.HostBookingCollection{}, err
	}

	statusFilter := strings.ToLower(strings.TrimSpace(q.Status))
	filterAll := statusFilter == "" || statusFilter == allStatusesFilter

	guests := make(map[domainuser.ID]*domainuser.User)
	items := make([]dto.HostBookingSummary, 0, len(bookings))
	for _, b := range bookings {
		if !filterAll && string(b.Status) != statusFilter {
			continue
		}
		guest, ok := guests[b.GuestID]
		if !ok {
			guest, err = unit.Users().ByID(execCtx, b.GuestID)
			if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
				return dto.HostBookingCollection{}, err
			}
			guests[b.GuestID] = guest
		}
		items = append(items, dto.MapHostBookingSummary(b, byID[b.ListingID], guest))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if h.Logger != nil {
		h.Logger.Debug("host bookings listed", "host_id", hostID, "count", len(items), "status", statusFilter)
	}
	return dto.HostBookingCollection{Items: items}, nil
}

// loadOwnedBooking resolves a booking and verifies the acting host owns the
// listing behind it. Shared by every host-side booking mutation.
func loadOwnedBooking(ctx context.Context, unit uow.UnitOfWork, hostID, bookingID string) (*domainbooking.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, fault.Validationf("booking id is required")
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return nil, fault.NotFoundf("booking not found")
		}
		return nil, err
	}
	listing, err := unit.Listings().ByID(ctx, b.ListingID)
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return nil, fault.NotFoundf("listing not found")
		}
		return nil, err
	}
	if err := policies.RequireOwner(policies.Principal{ID: domainuser.ID(hostID), Role: domainuser.RoleHost}, listing.HostID); err != nil {
		return nil, err
	}
	return b, nil
}

var _ queries.Handler[ListHostBookingsQuery, dto.HostBookingCollection] = (*ListHostBookingsHandler)(nil)
