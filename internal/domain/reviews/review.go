package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybnb/internal/domain/listings"
	"staybnb/internal/domain/user"
)

var (
	ErrInvalidRating   = errors.New("reviews: rating must be between 1 and 5")
	ErrAuthorRequired  = errors.New("reviews: author is required")
	ErrListingRequired = errors.New("reviews: listing is required")
	ErrNotFound        = errors.New("reviews: not found")
)

type ReviewID string

// Review is a guest's rating of a listing. One review per author per
// listing; duplicates are rejected at the application layer.
type Review struct {
	ID        ReviewID
	AuthorID  user.ID
	ListingID listings.ListingID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	ByAuthorAndListing(ctx context.Context, authorID user.ID, listingID listings.ListingID) (*Review, error)
	ListByAuthor(ctx context.Context, authorID user.ID) ([]*Review, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Review, error)
	ListAll(ctx context.Context) ([]*Review, error)
	Insert(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id ReviewID) error
}

type CreateParams struct {
	ID        ReviewID
	AuthorID  user.ID
	ListingID listings.ListingID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func NewReview(params CreateParams) (*Review, error) {
	if strings.TrimSpace(string(params.AuthorID)) == "" {
		return nil, ErrAuthorRequired
	}
	if strings.TrimSpace(string(params.ListingID)) == "" {
		return nil, ErrListingRequired
	}
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Review{
		ID:        params.ID,
		AuthorID:  params.AuthorID,
		ListingID: params.ListingID,
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: now.UTC(),
	}, nil
}
