package favorites

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
	handlersupport "staybnb/internal/app/handlers/support"
	"staybnb/internal/app/queries"
	"staybnb/internal/app/uow"
	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
	domainuser "staybnb/internal/domain/user"
)

const (
	addFavoriteKey       = "favorites.add"
	removeFavoriteKey    = "favorites.remove"
	listUserFavoritesKey = "favorites.list_user"
)

// AddFavoriteCommand bookmarks a listing for the acting user.
type AddFavoriteCommand struct {
	UserID    string
	ListingID string
	Note      string
}

func (c AddFavoriteCommand) Key() string { return addFavoriteKey }

type AddFavoriteHandler struct {
	Logger *slog.Logger
}

func (h *AddFavoriteHandler) Handle(ctx context.Context, cmd AddFavoriteCommand) (*dto.Favorite, error) {
	if strings.TrimSpace(cmd.ListingID) == "" {
		return nil, fault.Validationf("listing id is required")
	}
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
	userID := domainuser.ID(cmd.UserID)
	if _, err := unit.Favorites().ByUserAndListing(ctx, userID, listing.ID); err == nil {
		return nil, fault.Conflictf("this listing is already in your favorites")
	} else if !errors.Is(err, domainfavorites.ErrNotFound) {
		return nil, err
	}

	favorite, err := domainfavorites.NewFavorite(domainfavorites.CreateParams{
		ID:        domainfavorites.FavoriteID(uuid.NewString()),
		UserID:    userID,
		ListingID: listing.ID,
		Note:      cmd.Note,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, fault.Validationf("invalid favorite").Wrap(err)
	}
	if err := unit.Favorites().Insert(ctx, favorite); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("favorite added", "favorite_id", favorite.ID, "listing_id", favorite.ListingID, "user_id", favorite.UserID)
	}
	record := dto.MapFavorite(favorite, listing)
	return &record, nil
}

// RemoveFavoriteCommand drops a bookmark. A favorite owned by someone else
// reads as absent, never as forbidden.
type RemoveFavoriteCommand struct {
	UserID     string
	FavoriteID string
}

func (c RemoveFavoriteCommand) Key() string { return removeFavoriteKey }

type RemoveFavoriteResult struct {
	FavoriteID string `json:"favorite_id"`
	Message    string `json:"message"`
}

type RemoveFavoriteHandler struct {
	Logger *slog.Logger
}

func (h *RemoveFavoriteHandler) Handle(ctx context.Context, cmd RemoveFavoriteCommand) (*RemoveFavoriteResult, error) {
	if strings.TrimSpace(cmd.FavoriteID) == "" {
		return nil, fault.Validationf("favorite id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	favorite, err := unit.Favorites().ByID(ctx, domainfavorites.FavoriteID(cmd.FavoriteID))
	if err != nil {
		if errors.Is(err, domainfavorites.ErrNotFound) {
			return nil, fault.NotFoundf("favorite not found")
		}
		return nil, err
	}
	if favorite.UserID != domainuser.ID(cmd.UserID) {
		return nil, fault.NotFoundf("favorite not found")
	}
	if err := unit.Favorites().Delete(ctx, favorite.ID); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("favorite removed", "favorite_id", favorite.ID, "user_id", favorite.UserID)
	}
	return &RemoveFavoriteResult{FavoriteID: string(favorite.ID), Message: "favorite removed successfully"}, nil
}

// ListUserFavoritesQuery returns a user's saved listings with the listing
// content flattened in.
type ListUserFavoritesQuery struct {
	UserID string
}

func (q ListUserFavoritesQuery) Key() string { return listUserFavoritesKey }

type ListUserFavoritesHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListUserFavoritesHandler) Handle(ctx context.Context, q ListUserFavoritesQuery) (dto.FavoriteCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.FavoriteCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	found, err := unit.Favorites().ListByUser(execCtx, domainuser.ID(q.UserID))
	if err != nil {
		return dto.FavoriteCollection{}, err
	}
	items := make([]dto.Favorite, 0, len(found))
	for _, favorite := range found {
		listing, err := unit.Listings().ByID(execCtx, favorite.ListingID)
		if err != nil && !errors.Is(err, domainlistings.ErrNotFound) {
			return dto.FavoriteCollection{}, err
		}
		items = append(items, dto.MapFavorite(favorite, listing))
	}
	return dto.FavoriteCollection{Items: items}, nil
}

var _ commands.Handler[AddFavoriteCommand, *dto.Favorite] = (*AddFavoriteHandler)(nil)
var _ commands.Handler[RemoveFavoriteCommand, *RemoveFavoriteResult] = (*RemoveFavoriteHandler)(nil)
var _ queries.Handler[ListUserFavoritesQuery, dto.FavoriteCollection] = (*ListUserFavoritesHandler)(nil)
