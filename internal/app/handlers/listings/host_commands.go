package listings

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
	"staybnb/internal/app/policies"
	"staybnb/internal/app/uow"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/money"
	domainuser "staybnb/internal/domain/user"
)

const (
	createListingKey = "host.listings.create"
	updateListingKey = "host.listings.update"
	deleteListingKey = "host.listings.delete"
	setVisibilityKey = "host.listings.set_visibility"
)

type CreateListingCommand struct {
	HostID      string
	Title       string
	Description string
	Location    string
	NightlyRate int64 // minor units
	Amenities   []string
	ImageURL    string
}

func (c CreateListingCommand) Key() string { return createListingKey }

type UpdateListingCommand struct {
	HostID      string
	ListingID   string
	Title       *string
	Description *string
	Location    *string
	NightlyRate *int64
	Amenities   []string
	ImageURL    *string
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

type DeleteListingCommand struct {
	HostID    string
	ListingID string
}

func (c DeleteListingCommand) Key() string { return deleteListingKey }

type SetListingVisibilityCommand struct {
	HostID    string
	ListingID string
	Status    string
}

func (c SetListingVisibilityCommand) Key() string { return setVisibilityKey }

// HostListingHandler owns the host-side listing directory mutations. New
// and edited listings start pending until an admin approves them.
type HostListingHandler struct {
	Currency string
	Logger   *slog.Logger
}

func (h *HostListingHandler) HandleCreate(ctx context.Context, cmd CreateListingCommand) (*dto.ListingRecord, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	rate, err := money.New(cmd.NightlyRate, h.currency())
	if err != nil {
		return nil, fault.Validationf("invalid nightly rate").Wrap(err)
	}
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ListingID(uuid.NewString()),
		HostID:      domainuser.ID(cmd.HostID),
		Title:       cmd.Title,
		Description: cmd.Description,
		Location:    cmd.Location,
		NightlyRate: rate,
		Amenities:   cmd.Amenities,
		ImageURL:    cmd.ImageURL,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, fault.Validationf("invalid listing").Wrap(err)
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing created", "listing_id", listing.ID, "host_id", listing.HostID)
	}
	record := dto.MapListingRecord(listing)
	return &record, nil
}

func (h *HostListingHandler) HandleUpdate(ctx context.Context, cmd UpdateListingCommand) (*dto.ListingRecord, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if cmd.Title != nil {
		if strings.TrimSpace(*cmd.Title) == "" {
			return nil, fault.Validationf("title is required")
		}
		listing.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Description != nil {
		listing.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Location != nil {
		listing.Location = strings.TrimSpace(*cmd.Location)
	}
	if cmd.NightlyRate != nil {
		rate, err := money.New(*cmd.NightlyRate, listing.NightlyRate.Currency)
		if err != nil || rate.Negative() {
			return nil, fault.Validationf("invalid nightly rate")
		}
		listing.NightlyRate = rate
	}
	if cmd.Amenities != nil {
		listing.Amenities = append([]string(nil), cmd.Amenities...)
	}
	if cmd.ImageURL != nil {
		listing.ImageURL = strings.TrimSpace(*cmd.ImageURL)
	}
	// Edits to an approved listing go back through moderation.
	listing.MarkEdited(time.Now())
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	record := dto.MapListingRecord(listing)
	return &record, nil
}

func (h *HostListingHandler) HandleDelete(ctx context.Context, cmd DeleteListingCommand) (*dto.ListingRecord, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if err := unit.Listings().Delete(ctx, listing.ID); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing deleted", "listing_id", listing.ID, "host_id", listing.HostID)
	}
	record := dto.MapListingRecord(listing)
	return &record, nil
}

func (h *HostListingHandler) HandleSetVisibility(ctx context.Context, cmd SetListingVisibilityCommand) (*dto.ListingRecord, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	target := domainlistings.Status(strings.ToLower(strings.TrimSpace(cmd.Status)))
	if err := listing.SetVisibility(target, time.Now()); err != nil {
		if errors.Is(err, domainlistings.ErrAwaitingApproval) {
			return nil, fault.Conflictf("cannot change status of pending listing, wait for admin approval")
		}
		return nil, fault.Validationf("invalid status, hosts can only set active or inactive")
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	record := dto.MapListingRecord(listing)
	return &record, nil
}

func (h *HostListingHandler) currency() string {
	if h.Currency != "" {
		return h.Currency
	}
	return "USD"
}

func loadOwnedListing(ctx context.Context, unit uow.UnitOfWork, hostID, listingID string) (*domainlistings.Listing, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, fault.Validationf("listing id is required")
	}
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return nil, fault.NotFoundf("listing not found")
		}
		return nil, err
	}
	if err := policies.RequireOwner(policies.Principal{ID: domainuser.ID(hostID), Role: domainuser.RoleHost}, listing.HostID); err != nil {
		return nil, err
	}
	return listing, nil
}

type createListingAdapter struct{ Inner *HostListingHandler }

func (a createListingAdapter) Handle(ctx context.Context, cmd CreateListingCommand) (*dto.ListingRecord, error) {
	return a.Inner.HandleCreate(ctx, cmd)
}

type updateListingAdapter struct{ Inner *HostListingHandler }

func (a updateListingAdapter) Handle(ctx context.Context, cmd UpdateListingCommand) (*dto.ListingRecord, error) {
	return a.Inner.HandleUpdate(ctx, cmd)
}

type deleteListingAdapter struct{ Inner *HostListingHandler }

func (a deleteListingAdapter) Handle(ctx context.Context, cmd DeleteListingCommand) (*dto.ListingRecord, error) {
	return a.Inner.HandleDelete(ctx, cmd)
}

type setVisibilityAdapter struct{ Inner *HostListingHandler }

func (a setVisibilityAdapter) Handle(ctx context.Context, cmd SetListingVisibilityCommand) (*dto.ListingRecord, error) {
	return a.Inner.HandleSetVisibility(ctx, cmd)
}

func CreateHandler(inner *HostListingHandler) commands.Handler[CreateListingCommand, *dto.ListingRecord] {
	return createListingAdapter{Inner: inner}
}

func UpdateHandler(inner *HostListingHandler) commands.Handler[UpdateListingCommand, *dto.ListingRecord] {
	return updateListingAdapter{Inner: inner}
}

func DeleteHandler(inner *HostListingHandler) commands.Handler[DeleteListingCommand, *dto.ListingRecord] {
	return deleteListingAdapter{Inner: inner}
}

func SetVisibilityHandler(inner *HostListingHandler) commands.Handler[SetListingVisibilityCommand, *dto.ListingRecord] {
	return setVisibilityAdapter{Inner: inner}
}
