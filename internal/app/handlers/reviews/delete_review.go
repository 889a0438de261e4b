package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/fault"
	"staybnb/internal/app/policies"
	"staybnb/internal/app/uow"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
)

const deleteReviewKey = "reviews.delete"

// DeleteReviewCommand removes a review its author no longer stands behind.
type DeleteReviewCommand struct {
	AuthorID string
	ReviewID string
}

func (c DeleteReviewCommand) Key() string { return deleteReviewKey }

type DeleteReviewResult struct {
	ReviewID string `json:"review_id"`
	Message  string `json:"message"`
}

type DeleteReviewHandler struct {
	Logger *slog.Logger
}

func (h *DeleteReviewHandler) Handle(ctx context.Context, cmd DeleteReviewCommand) (*DeleteReviewResult, error) {
	if strings.TrimSpace(cmd.ReviewID) == "" {
		return nil, fault.Validationf("review id is required")
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(cmd.ReviewID))
	if err != nil {
		if errors.Is(err, domainreviews.ErrNotFound) {
			return nil, fault.NotFoundf("review not found")
		}
		return nil, err
	}
	if err := policies.RequireOwner(policies.Principal{ID: domainuser.ID(cmd.AuthorID), Role: domainuser.RoleGuest}, review.AuthorID); err != nil {
		return nil, err
	}
	if err := unit.Reviews().Delete(ctx, review.ID); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("review deleted", "review_id", review.ID, "author_id", review.AuthorID)
	}
	return &DeleteReviewResult{ReviewID: string(review.ID), Message: "review deleted successfully"}, nil
}

var _ commands.Handler[DeleteReviewCommand, *DeleteReviewResult] = (*DeleteReviewHandler)(nil)
