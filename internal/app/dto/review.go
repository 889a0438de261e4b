package dto

import (
	"time"

	domainlistings "staybnb/internal/domain/listings"
	domainreviews "staybnb/internal/domain/reviews"
	domainuser "staybnb/internal/domain/user"
)

// Review carries a rating with the author and listing names denormalized
// for list endpoints. Either name may be empty when the referenced row is
// gone.
type Review struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items []Review `json:"items"`
}

func MapReview(r *domainreviews.Review, author *domainuser.User, listing *domainlistings.Listing) Review {
	review := Review{
		ID:        string(r.ID),
		UserID:    string(r.AuthorID),
		ListingID: string(r.ListingID),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if author != nil {
		review.UserName = author.Username
	}
	if listing != nil {
		review.ListingTitle = listing.Title
	}
	return review
}
