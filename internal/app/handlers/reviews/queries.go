package reviews

import (
	"context"
	"errors"
	"log/slog"

	"staybnb/internal/app/dto"
	handlersupport "staybnb/internal/app/handlers/support"
	"staybnb/internal/app/queries"
	"staybnb/internal/app/uow"
	domainlistings "staybnb/internal/domain/listings"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
)

const (
	listListingReviewsKey = "reviews.list_listing"
	listUserReviewsKey    = "reviews.list_user"
	listAllReviewsKey     = "reviews.list_all"
)

// ListListingReviewsQuery returns every review left on a listing.
type ListListingReviewsQuery struct {
	ListingID string
}

func (q ListListingReviewsQuery) Key() string { return listListingReviewsKey }

type ListListingReviewsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListListingReviewsHandler) Handle(ctx context.Context, q ListListingReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	found, err := unit.Reviews().ListByListing(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	return enrich(execCtx, unit, found)
}

// ListUserReviewsQuery returns the reviews a user has written.
type ListUserReviewsQuery struct {
	UserID string
}

func (q ListUserReviewsQuery) Key() string { return listUserReviewsKey }

type ListUserReviewsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListUserReviewsHandler) Handle(ctx context.Context, q ListUserReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	found, err := unit.Reviews().ListByAuthor(execCtx, domainuser.ID(q.UserID))
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	return enrich(execCtx, unit, found)
}

// ListAllReviewsQuery is the public firehose of every review on the site.
type ListAllReviewsQuery struct{}

func (q ListAllReviewsQuery) Key() string { return listAllReviewsKey }

type ListAllReviewsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListAllReviewsHandler) Handle(ctx context.Context, q ListAllReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	found, err := unit.Reviews().ListAll(execCtx)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	return enrich(execCtx, unit, found)
}

// enrich denormalizes author and listing names onto each review. Deleted
// references leave the name fields empty rather than failing the read.
func enrich(ctx context.Context, unit uow.UnitOfWork, found []*domainreviews.Review) (dto.ReviewCollection, error) {
	items := make([]dto.Review, 0, len(found))
	for _, review := range found {
		author, err := unit.Users().ByID(ctx, review.AuthorID)
		if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
			return dto.ReviewCollection{}, err
		}
		listing, err := unit.Listings().ByID(ctx, review.ListingID)
		if err != nil && !errors.Is(err, domainlistings.ErrNotFound) {
			return dto.ReviewCollection{}, err
		}
		items = append(items, dto.MapReview(review, author, listing))
	}
	return dto.ReviewCollection{Items: items}, nil
}

var _ queries.Handler[ListListingReviewsQuery, dto.ReviewCollection] = (*ListListingReviewsHandler)(nil)
var _ queries.Handler[ListUserReviewsQuery, dto.ReviewCollection] = (*ListUserReviewsHandler)(nil)
var _ queries.Handler[ListAllReviewsQuery, dto.ReviewCollection] = (*ListAllReviewsHandler)(nil)
