package reviews

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
	"staybnb/internal/app/uow"
	domainlistings "staybnb/internal/domain/listings"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
)

const submitReviewKey = "reviews.submit"

// SubmitReviewCommand rates a listing. One review per guest per listing;
// a second submission conflicts.
type SubmitReviewCommand struct {
	AuthorID  string
	ListingID string
	Rating    int
	Comment   string
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

type SubmitReviewHandler struct {
	Logger *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*dto.Review, error) {
	if strings.TrimSpace(cmd.ListingID) == "" {
		return nil, fault.Validationf("listing id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	author, err := unit.Users().ByID(ctx, domainuser.ID(cmd.AuthorID))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, fault.NotFoundf("user not found")
		}
		return nil, err
	}
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return nil, fault.NotFoundf("listing not found")
		}
		return nil, err
	}

	if _, err := unit.Reviews().ByAuthorAndListing(ctx, author.ID, listing.ID); err == nil {
		return nil, fault.Conflictf("you have already reviewed this listing")
	} else if !errors.Is(err, domainreviews.ErrNotFound) {
		return nil, err
	}

	review, err := domainreviews.NewReview(domainreviews.CreateParams{
		ID:        domainreviews.ReviewID(uuid.NewString()),
		AuthorID:  author.ID,
		ListingID: listing.ID,
		Rating:    cmd.Rating,
		Comment:   cmd.Comment,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, fault.Validationf("invalid review").Wrap(err)
	}
	if err := unit.Reviews().Insert(ctx, review); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("review submitted", "review_id", review.ID, "listing_id", review.ListingID, "author_id", review.AuthorID, "rating", review.Rating)
	}
	record := dto.MapReview(review, author, listing)
	return &record, nil
}

var _ commands.Handler[SubmitReviewCommand, *dto.Review] = (*SubmitReviewHandler)(nil)
