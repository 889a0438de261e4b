package favorites

import (
	"context"
	"testing"
	"time"

	"staybnb/internal/app/fault"
	"staybnb/internal/app/uow"
	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/money"
	"staybnb/internal/infra/storage/memory"
)

type favoriteFixture struct {
	factory   memory.Factory
	favorites *memory.FavoriteRepository
	listings  *memory.ListingRepository
}

func newFavoriteFixture(t *testing.T) *favoriteFixture {
	t.Helper()
	f := &favoriteFixture{
		favorites: memory.NewFavoriteRepository(),
		listings:  memory.NewListingRepository(),
	}
	f.factory = memory.Factory{
		BookingRepo:   memory.NewBookingRepository(),
		ListingsRepo:  f.listings,
		UsersRepo:     memory.NewUserRepository(),
		FavoritesRepo: f.favorites,
	}
	f.seedListing(t, "lst-1", "Harbor loft")
	return f
}

func (f *favoriteFixture) seedListing(t *testing.T, id, title string) {
	t.Helper()
	l, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ListingID(id),
		HostID:      "host-1",
		Title:       title,
		Description: "A place to stay",
		Location:    "Porto",
		NightlyRate: money.Must(12000, "USD"),
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	l.Approve(time.Now())
	if err := f.listings.Save(context.Background(), l); err != nil {
		t.Fatalf("save listing: %v", err)
	}
}

func (f *favoriteFixture) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin unit: %v", err)
	}
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func TestAddFavoriteDefaultsNote(t *testing.T) {
	f := newFavoriteFixture(t)
	handler := &AddFavoriteHandler{}
	rec, err := handler.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-1", ListingID: "lst-1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Note != domainfavorites.DefaultNote {
		t.Fatalf("expected default note, got %q", rec.Note)
	}
	if rec.Title != "Harbor loft" || rec.PricePerNight == nil || rec.PricePerNight.Amount != 12000 {
		t.Fatalf("expected flattened listing fields, got %+v", rec)
	}
}

func TestAddFavoriteValidatesListing(t *testing.T) {
	f := newFavoriteFixture(t)
	handler := &AddFavoriteHandler{}
	_, err := handler.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-1", ListingID: "  "})
	if fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("blank listing id: expected validation fault, got %v", err)
	}
	_, err = handler.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-1", ListingID: "missing"})
	if fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("missing listing: expected not-found fault, got %v", err)
	}
}

func TestAddFavoriteRejectsDuplicate(t *testing.T) {
	f := newFavoriteFixture(t)
	handler := &AddFavoriteHandler{}
	if _, err := handler.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-1", ListingID: "lst-1"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := handler.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-1", ListingID: "lst-1"})
	if fault.KindOf(err) != fault.KindConflict {
		t.Fatalf("duplicate: expected conflict fault, got %v", err)
	}
	if _, err := handler.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-2", ListingID: "lst-1"}); err != nil {
		t.Fatalf("other user should pass: %v", err)
	}
}

func TestListUserFavoritesFlattensListings(t *testing.T) {
	f := newFavoriteFixture(t)
	f.seedListing(t, "lst-2", "City studio")
	add := &AddFavoriteHandler{}
	for _, listingID := range []string{"lst-1", "lst-2"} {
		if _, err := add.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-1", ListingID: listingID, Note: "trip"}); err != nil {
			t.Fatalf("add %s: %v", listingID, err)
		}
	}

	handler := &ListUserFavoritesHandler{UoWFactory: f.factory}
	got, err := handler.Handle(context.Background(), ListUserFavoritesQuery{UserID: "guest-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(got.Items))
	}
	for _, item := range got.Items {
		if item.Title == "" || item.Note != "trip" {
			t.Fatalf("expected flattened listing and note, got %+v", item)
		}
	}

	other, err := handler.Handle(context.Background(), ListUserFavoritesQuery{UserID: "guest-2"})
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other.Items) != 0 {
		t.Fatalf("expected no favorites for other user, got %d", len(other.Items))
	}
}

func TestRemoveFavoriteScopedToOwner(t *testing.T) {
	f := newFavoriteFixture(t)
	add := &AddFavoriteHandler{}
	rec, err := add.Handle(f.unitContext(t), AddFavoriteCommand{UserID: "guest-1", ListingID: "lst-1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	remove := &RemoveFavoriteHandler{}
	_, err = remove.Handle(f.unitContext(t), RemoveFavoriteCommand{UserID: "guest-2", FavoriteID: rec.FavoriteID})
	if fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("foreign favorite must read as absent, got %v", err)
	}

	if _, err := remove.Handle(f.unitContext(t), RemoveFavoriteCommand{UserID: "guest-1", FavoriteID: rec.FavoriteID}); err != nil {
		t.Fatalf("owner remove: %v", err)
	}
	_, err = remove.Handle(f.unitContext(t), RemoveFavoriteCommand{UserID: "guest-1", FavoriteID: rec.FavoriteID})
	if fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("second remove: expected not-found fault, got %v", err)
	}
}
