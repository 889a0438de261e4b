package reviews

import (
	"context"
	"testing"
	"time"

	"staybnb/internal/app/fault"
	"staybnb/internal/app/uow"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/money"
	domainuser "staybnb/internal/domain/user"
	"staybnb/internal/infra/storage/memory"
)

type reviewFixture struct {
	factory  memory.Factory
	reviews  *memory.ReviewRepository
	listings *memory.ListingRepository
	users    *memory.UserRepository
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	f := &reviewFixture{
		reviews:  memory.NewReviewRepository(),
		listings: memory.NewListingRepository(),
		users:    memory.NewUserRepository(),
	}
	f.factory = memory.Factory{
		BookingRepo:  memory.NewBookingRepository(),
		ListingsRepo: f.listings,
		UsersRepo:    f.users,
		ReviewsRepo:  f.reviews,
	}
	f.seedUser(t, "guest-1", "dana")
	f.seedUser(t, "guest-2", "sam")
	f.seedListing(t, "lst-1", "host-1", "Harbor loft")
	return f
}

func (f *reviewFixture) seedUser(t *testing.T, id, username string) {
	t.Helper()
	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domainuser.RoleGuest,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := f.users.Save(context.Background(), u); err != nil {
		t.Fatalf("save user: %v", err)
	}
}

func (f *reviewFixture) seedListing(t *testing.T, id, hostID, title string) {
	t.Helper()
	l, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ListingID(id),
		HostID:      domainuser.ID(hostID),
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

func (f *reviewFixture) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin unit: %v", err)
	}
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func (f *reviewFixture) submit(t *testing.T, authorID, listingID string, rating int, comment string) error {
	t.Helper()
	handler := &SubmitReviewHandler{}
	_, err := handler.Handle(f.unitContext(t), SubmitReviewCommand{
		AuthorID:  authorID,
		ListingID: listingID,
		Rating:    rating,
		Comment:   comment,
	})
	return err
}

func TestSubmitReviewStoresRating(t *testing.T) {
	f := newReviewFixture(t)
	handler := &SubmitReviewHandler{}
	rec, err := handler.Handle(f.unitContext(t), SubmitReviewCommand{
		AuthorID:  "guest-1",
		ListingID: "lst-1",
		Rating:    4,
		Comment:   "  great stay  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Rating != 4 || rec.Comment != "great stay" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.UserName != "dana" || rec.ListingTitle != "Harbor loft" {
		t.Fatalf("expected denormalized names, got %+v", rec)
	}
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	f := newReviewFixture(t)
	for _, rating := range []int{0, 6, -1} {
		if err := f.submit(t, "guest-1", "lst-1", rating, ""); fault.KindOf(err) != fault.KindValidation {
			t.Fatalf("rating %d: expected validation fault, got %v", rating, err)
		}
	}
}

func TestSubmitReviewRejectsDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	if err := f.submit(t, "guest-1", "lst-1", 5, "first"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	err := f.submit(t, "guest-1", "lst-1", 3, "second")
	if fault.KindOf(err) != fault.KindConflict {
		t.Fatalf("expected conflict fault, got %v", err)
	}
	if err := f.submit(t, "guest-2", "lst-1", 3, "other guest"); err != nil {
		t.Fatalf("different author should pass: %v", err)
	}
}

func TestSubmitReviewUnknownReferences(t *testing.T) {
	f := newReviewFixture(t)
	if err := f.submit(t, "guest-1", "missing", 4, ""); fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("missing listing: expected not-found fault, got %v", err)
	}
	if err := f.submit(t, "nobody", "lst-1", 4, ""); fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("missing author: expected not-found fault, got %v", err)
	}
	if err := f.submit(t, "guest-1", "  ", 4, ""); fault.KindOf(err) != fault.KindValidation {
		t.Fatalf("blank listing id: expected validation fault, got %v", err)
	}
}

func TestListListingReviewsDenormalizesAuthors(t *testing.T) {
	f := newReviewFixture(t)
	if err := f.submit(t, "guest-1", "lst-1", 5, "lovely"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.submit(t, "guest-2", "lst-1", 2, "noisy"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	handler := &ListListingReviewsHandler{UoWFactory: f.factory}
	got, err := handler.Handle(context.Background(), ListListingReviewsQuery{ListingID: "lst-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(got.Items))
	}
	for _, item := range got.Items {
		if item.UserName == "" {
			t.Fatalf("expected author name on %+v", item)
		}
	}
}

func TestListUserReviewsCarriesListingTitle(t *testing.T) {
	f := newReviewFixture(t)
	f.seedListing(t, "lst-2", "host-1", "City studio")
	if err := f.submit(t, "guest-1", "lst-1", 5, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.submit(t, "guest-1", "lst-2", 3, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	handler := &ListUserReviewsHandler{UoWFactory: f.factory}
	got, err := handler.Handle(context.Background(), ListUserReviewsQuery{UserID: "guest-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(got.Items))
	}
	titles := map[string]bool{}
	for _, item := range got.Items {
		titles[item.ListingTitle] = true
	}
	if !titles["Harbor loft"] || !titles["City studio"] {
		t.Fatalf("expected listing titles, got %v", titles)
	}
}

func TestDeleteReviewRequiresOwnership(t *testing.T) {
	f := newReviewFixture(t)
	submitHandler := &SubmitReviewHandler{}
	rec, err := submitHandler.Handle(f.unitContext(t), SubmitReviewCommand{
		AuthorID:  "guest-1",
		ListingID: "lst-1",
		Rating:    5,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	deleteHandler := &DeleteReviewHandler{}
	_, err = deleteHandler.Handle(f.unitContext(t), DeleteReviewCommand{AuthorID: "guest-2", ReviewID: rec.ID})
	if fault.KindOf(err) != fault.KindAuthorization {
		t.Fatalf("non-owner delete: expected authorization fault, got %v", err)
	}

	if _, err := deleteHandler.Handle(f.unitContext(t), DeleteReviewCommand{AuthorID: "guest-1", ReviewID: rec.ID}); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	_, err = deleteHandler.Handle(f.unitContext(t), DeleteReviewCommand{AuthorID: "guest-1", ReviewID: rec.ID})
	if fault.KindOf(err) != fault.KindNotFound {
		t.Fatalf("second delete: expected not-found fault, got %v", err)
	}
}
