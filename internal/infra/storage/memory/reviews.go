package memory

import (
	"context"
	"sort"
	"sync"

	domainlistings "staybnb/internal/domain/listings"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
)

// ReviewRepository is an in-memory review store.
type ReviewRepository struct {
	mu    sync.RWMutex
	items map[domainreviews.ReviewID]*domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{items: make(map[domainreviews.ReviewID]*domainreviews.Review)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.items[id]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *ReviewRepository) ByAuthorAndListing(ctx context.Context, authorID domainuser.ID, listingID domainlistings.ListingID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, review := range r.items {
		if review.AuthorID == authorID && review.ListingID == listingID {
			clone := *review
			return &clone, nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

func (r *ReviewRepository) ListByAuthor(ctx context.Context, authorID domainuser.ID) ([]*domainreviews.Review, error) {
	return r.list(func(review *domainreviews.Review) bool {
		return review.AuthorID == authorID
	}), nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainreviews.Review, error) {
	return r.list(func(review *domainreviews.Review) bool {
		return review.ListingID == listingID
	}), nil
}

func (r *ReviewRepository) ListAll(ctx context.Context) ([]*domainreviews.Review, error) {
	return r.list(func(*domainreviews.Review) bool { return true }), nil
}

func (r *ReviewRepository) Insert(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *review
	r.items[review.ID] = &clone
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id domainreviews.ReviewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainreviews.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ReviewRepository) list(match func(*domainreviews.Review) bool) []*domainreviews.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainreviews.Review, 0)
	for _, review := range r.items {
		if match(review) {
			clone := *review
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
