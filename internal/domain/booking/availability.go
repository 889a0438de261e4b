package booking

import (
	"context"

	"staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
)

// DefaultExcludedStatuses are the statuses that do not block a new booking:
// a cancelled reservation frees its dates.
var DefaultExcludedStatuses = []Status{StatusCancelled}

// IsAvailable reports whether the listing has no stored booking overlapping
// dr, ignoring bookings whose status is in exclude. It is a read-only probe;
// date ordering is validated by the caller before this runs.
func IsAvailable(ctx context.Context, repo Repository, listingID listings.ListingID, dr daterange.DateRange, exclude []Status) (bool, error) {
	conflict, err := repo.FindOverlapping(ctx, listingID, dr, exclude)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}
