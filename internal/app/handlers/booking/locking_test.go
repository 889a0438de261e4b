package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"staybnb/internal/app/commands"
	"staybnb/internal/app/fault"
	"staybnb/internal/app/middleware"
	"staybnb/internal/app/uow"
	domainbooking "staybnb/internal/domain/booking"
	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
	"staybnb/internal/infra/storage/memory"
)

// stagedBookingRepo buffers inserts until commit, like a session-bound store
// where writes become visible to other units only after the transaction
// lands.
type stagedBookingRepo struct {
	*memory.BookingRepository
	mu     sync.Mutex
	staged []*domainbooking.Booking
}

func (r *stagedBookingRepo) Insert(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.staged = append(r.staged, &clone)
	return nil
}

func (r *stagedBookingRepo) flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.staged {
		if err := r.BookingRepository.Insert(ctx, b); err != nil {
			return err
		}
	}
	r.staged = nil
	return nil
}

type stagedUnit struct {
	bookings  *stagedBookingRepo
	base      *createFixture
	commitLag time.Duration
}

func (u *stagedUnit) Bookings() domainbooking.Repository { return u.bookings }

func (u *stagedUnit) Listings() domainlistings.Repository { return u.base.listings }

func (u *stagedUnit) Users() domainuser.Repository { return u.base.users }

func (u *stagedUnit) Reviews() domainreviews.Repository { return memory.NewReviewRepository() }

func (u *stagedUnit) Favorites() domainfavorites.Repository { return memory.NewFavoriteRepository() }

func (u *stagedUnit) Commit(ctx context.Context) error {
	time.Sleep(u.commitLag)
	return u.bookings.flush(ctx)
}

func (u *stagedUnit) Rollback(ctx context.Context) error {
	u.bookings.mu.Lock()
	u.bookings.staged = nil
	u.bookings.mu.Unlock()
	return nil
}

type stagedFactory struct {
	base      *createFixture
	commitLag time.Duration
}

func (f stagedFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return &stagedUnit{
		bookings:  &stagedBookingRepo{BookingRepository: f.base.bookings},
		base:      f.base,
		commitLag: f.commitLag,
	}, nil
}

// Two concurrent creates on the same dates must serialize across the whole
// transaction, commit included. With commit-time visibility, a lock dropped
// before commit would let the second request pass the availability check
// against a stale view and double-book the listing.
func TestConcurrentCreatesSerializedAcrossCommit(t *testing.T) {
	f := newCreateFixture(t)
	handler := &CreateBookingHandler{Outbox: f.outbox}

	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, CreateBookingCommand{}.Key(), handler)
	locks := NewListingLocks()
	piped := middleware.ChainCommands(
		bus,
		middleware.ListingLock(locks.AcquireKey),
		middleware.Transaction(stagedFactory{base: f, commitLag: 5 * time.Millisecond}, nil),
	)

	cmd := CreateBookingCommand{
		GuestID:   "guest-1",
		ListingID: "lst-1",
		CheckIn:   "2025-06-01",
		CheckOut:  "2025-06-05",
	}
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := piped.Dispatch(context.Background(), cmd)
			errs[slot] = err
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case fault.KindOf(err) == fault.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected one success and one conflict, got %d successes and %d conflicts", successes, conflicts)
	}

	stored, err := f.bookings.ListByListing(context.Background(), "lst-1")
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected exactly one committed booking, got %d", len(stored))
	}
}
