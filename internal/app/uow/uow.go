package uow

import (
	"context"

	domainbooking "staybnb/internal/domain/booking"
	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary. Every
// booking mutation runs against exactly one unit: commit on full success,
// rollback on any failure, no partial write observable.
type UnitOfWork interface {
	Bookings() domainbooking.Repository
	Listings() domainlistings.Repository
	Users() domainuser.Repository
	Reviews() domainreviews.Repository
	Favorites() domainfavorites.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
