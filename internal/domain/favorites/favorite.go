package favorites

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybnb/internal/domain/listings"
	"staybnb/internal/domain/user"
)

var (
	ErrUserRequired    = errors.New("favorites: user is required")
	ErrListingRequired = errors.New("favorites: listing is required")
	ErrNotFound        = errors.New("favorites: not found")
)

// DefaultNote annotates a favorite saved without an explicit note.
const DefaultNote = "Added to favorites"

type FavoriteID string

// Favorite bookmarks a listing for a user, with an optional free-text note.
type Favorite struct {
	ID        FavoriteID
	UserID    user.ID
	ListingID listings.ListingID
	Note      string
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id FavoriteID) (*Favorite, error)
	ByUserAndListing(ctx context.Context, userID user.ID, listingID listings.ListingID) (*Favorite, error)
	ListByUser(ctx context.Context, userID user.ID) ([]*Favorite, error)
	Insert(ctx context.Context, favorite *Favorite) error
	Delete(ctx context.Context, id FavoriteID) error
}

type CreateParams struct {
	ID        FavoriteID
	UserID    user.ID
	ListingID listings.ListingID
	Note      string
	CreatedAt time.Time
}

func NewFavorite(params CreateParams) (*Favorite, error) {
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, ErrUserRequired
	}
	if strings.TrimSpace(string(params.ListingID)) == "" {
		return nil, ErrListingRequired
	}
	note := strings.TrimSpace(params.Note)
	if note == "" {
		note = DefaultNote
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Favorite{
		ID:        params.ID,
		UserID:    params.UserID,
		ListingID: params.ListingID,
		Note:      note,
		CreatedAt: now.UTC(),
	}, nil
}
