package dto

import (
	"time"

	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
)

// Favorite flattens the bookmarked listing into the response so clients can
// render the saved list without a second lookup.
type Favorite struct {
	FavoriteID    string    `json:"favorite_id"`
	ListingID     string    `json:"listing_id"`
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	PricePerNight *MoneyDTO `json:"price_per_night,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}

type FavoriteCollection struct {
	Items []Favorite `json:"items"`
}

func MapFavorite(f *domainfavorites.Favorite, listing *domainlistings.Listing) Favorite {
	favorite := Favorite{
		FavoriteID: string(f.ID),
		ListingID:  string(f.ListingID),
		Note:       f.Note,
		CreatedAt:  f.CreatedAt,
	}
	if listing != nil {
		favorite.Title = listing.Title
		favorite.Description = listing.Description
		rate := MapMoney(listing.NightlyRate)
		favorite.PricePerNight = &rate
		favorite.ImageURL = listing.ImageURL
	}
	return favorite
}
