package memory

import (
	"context"
	"errors"

	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	BookingRepo   domainbooking.Repository
	ListingsRepo  domainlistings.Repository
	UsersRepo     domainuser.Repository
	ReviewsRepo   domainreviews.Repository
	FavoritesRepo domainfavorites.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports. Review and favorite
// stores default to empty ones when not wired.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.BookingRepo == nil || f.ListingsRepo == nil || f.UsersRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	reviews := f.ReviewsRepo
	if reviews == nil {
		reviews = NewReviewRepository()
	}
	favorites := f.FavoritesRepo
	if favorites == nil {
		favorites = NewFavoriteRepository()
	}
	return &Unit{
		booking:   f.BookingRepo,
		listings:  f.ListingsRepo,
		users:     f.UsersRepo,
		reviews:   reviews,
		favorites: favorites,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	booking   domainbooking.Repository
	listings  domainlistings.Repository
	users     domainuser.Repository
	reviews   domainreviews.Repository
	favorites domainfavorites.Repository
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.booking
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Users() domainuser.Repository {
	return u.users
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Favorites() domainfavorites.Repository {
	return u.favorites
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
