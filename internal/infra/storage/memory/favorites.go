package memory

import (
	"context"
	"sort"
	"sync"

	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
	domainuser "staybnb/internal/domain/user"
)

// FavoriteRepository is an in-memory favorite store.
type FavoriteRepository struct {
	mu    sync.RWMutex
	items map[domainfavorites.FavoriteID]*domainfavorites.Favorite
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{items: make(map[domainfavorites.FavoriteID]*domainfavorites.Favorite)}
}

func (r *FavoriteRepository) ByID(ctx context.Context, id domainfavorites.FavoriteID) (*domainfavorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	favorite, ok := r.items[id]
	if !ok {
		return nil, domainfavorites.ErrNotFound
	}
	clone := *favorite
	return &clone, nil
}

func (r *FavoriteRepository) ByUserAndListing(ctx context.Context, userID domainuser.ID, listingID domainlistings.ListingID) (*domainfavorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, favorite := range r.items {
		if favorite.UserID == userID && favorite.ListingID == listingID {
			clone := *favorite
			return &clone, nil
		}
	}
	return nil, domainfavorites.ErrNotFound
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainfavorites.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainfavorites.Favorite, 0)
	for _, favorite := range r.items {
		if favorite.UserID == userID {
			clone := *favorite
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *FavoriteRepository) Insert(ctx context.Context, favorite *domainfavorites.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *favorite
	r.items[favorite.ID] = &clone
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, id domainfavorites.FavoriteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainfavorites.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domainfavorites.Repository = (*FavoriteRepository)(nil)
