package listings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	"staybnb/internal/app/fault"
	handlersupport "staybnb/internal/app/handlers/support"
	"staybnb/internal/app/queries"
	"staybnb/internal/app/uow"
	domainlistings "staybnb/internal/domain/listings"
)

const (
	listAllListingsKey    = "admin.listings.list"
	moderateListingKey    = "admin.listings.moderate"
	adminDeleteListingKey = "admin.listings.delete"
)

type ListAllListingsQuery struct{}

func (q ListAllListingsQuery) Key() string { return listAllListingsKey }

type ListAllListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListAllListingsHandler) Handle(ctx context.Context, q ListAllListingsQuery) (dto.ListingCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	all, err := unit.Listings().ListAll(execCtx)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	return dto.MapListingCollection(all), nil
}

// ModerateListingCommand approves or declines a pending listing.
type ModerateListingCommand struct {
	ListingID string
	Approve   bool
}

func (c ModerateListingCommand) Key() string { return moderateListingKey }

type ModerateListingHandler struct {
	Logger *slog.Logger
}

func (h *ModerateListingHandler) Handle(ctx context.Context, cmd ModerateListingCommand) (*dto.ListingRecord, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return nil, fault.NotFoundf("listing not found")
		}
		return nil, err
	}
	now := time.Now()
	if cmd.Approve {
		listing.Approve(now)
	} else {
		listing.Decline(now)
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing moderated", "listing_id", listing.ID, "status", listing.Status)
	}
	record := dto.MapListingRecord(listing)
	return &record, nil
}

// AdminDeleteListingCommand removes a listing together with its dependent
// bookings.
type AdminDeleteListingCommand struct {
	ListingID string
}

func (c AdminDeleteListingCommand) Key() string { return adminDeleteListingKey }

type AdminDeleteListingHandler struct {
	Logger *slog.Logger
}

func (h *AdminDeleteListingHandler) Handle(ctx context.Context, cmd AdminDeleteListingCommand) (*dto.ListingRecord, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return nil, fault.NotFoundf("listing not found")
		}
		return nil, err
	}
	dependents, err := unit.Bookings().ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range dependents {
		if err := unit.Bookings().Delete(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	if err := unit.Listings().Delete(ctx, listing.ID); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing removed by admin", "listing_id", listing.ID, "bookings_removed", len(dependents))
	}
	record := dto.MapListingRecord(listing)
	return &record, nil
}

var (
	_ queries.Handler[ListAllListingsQuery, dto.ListingCollection]    = (*ListAllListingsHandler)(nil)
	_ commands.Handler[ModerateListingCommand, *dto.ListingRecord]    = (*ModerateListingHandler)(nil)
	_ commands.Handler[AdminDeleteListingCommand, *dto.ListingRecord] = (*AdminDeleteListingHandler)(nil)
)
