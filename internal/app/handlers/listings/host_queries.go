package listings

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/dto"
	"staybnb/internal/app/fault"
	handlersupport "staybnb/internal/app/handlers/support"
	"staybnb/internal/app/policies"
	"staybnb/internal/app/queries"
	"staybnb/internal/app/uow"
	domainuser "staybnb/internal/domain/user"
)

const (
	listHostListingsKey = "host.listings.list"
	uploadPhotoKey      = "host.listings.upload_photo"
)

type ListHostListingsQuery struct {
	HostID string
}

func (q ListHostListingsQuery) Key() string { return listHostListingsKey }

type ListHostListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListHostListingsHandler) Handle(ctx context.Context, q ListHostListingsQuery) (dto.ListingCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	owned, err := unit.Listings().ListByHost(execCtx, domainuser.ID(q.HostID))
	if err != nil {
		return dto.ListingCollection{}, err
	}
	return dto.MapListingCollection(owned), nil
}

// UploadListingPhotoCommand stores an image for the listing and records the
// resulting public URL on it.
type UploadListingPhotoCommand struct {
	HostID      string
	ListingID   string
	Filename    string
	ContentType string
	Data        []byte
}

func (c UploadListingPhotoCommand) Key() string { return uploadPhotoKey }

type PhotoUploadResult struct {
	ListingID string `json:"listing_id"`
	ImageURL  string `json:"image_url"`
}

type UploadListingPhotoHandler struct {
	Photos policies.PhotoStorage
	Logger *slog.Logger
}

func (h *UploadListingPhotoHandler) Handle(ctx context.Context, cmd UploadListingPhotoCommand) (*PhotoUploadResult, error) {
	if h.Photos == nil {
		return nil, fault.Validationf("photo storage is not configured")
	}
	if len(cmd.Data) == 0 {
		return nil, fault.Validationf("photo content is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	listing, err := loadOwnedListing(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("listings/%s/%s%s", listing.ID, uuid.NewString(), path.Ext(cmd.Filename))
	url, err := h.Photos.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType)
	if err != nil {
		return nil, err
	}

	listing.ImageURL = url
	listing.UpdatedAt = time.Now().UTC()
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing photo uploaded", "listing_id", listing.ID, "url", url)
	}
	return &PhotoUploadResult{ListingID: string(listing.ID), ImageURL: url}, nil
}

var (
	_ queries.Handler[ListHostListingsQuery, dto.ListingCollection]        = (*ListHostListingsHandler)(nil)
	_ commands.Handler[UploadListingPhotoCommand, *PhotoUploadResult]      = (*UploadListingPhotoHandler)(nil)
)
