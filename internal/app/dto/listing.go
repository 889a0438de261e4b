package dto

import (
	"time"

	domainlistings "staybnb/internal/domain/listings"
)

type ListingRecord struct {
	ID          string    `json:"id"`
	HostID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	NightlyRate MoneyDTO  `json:"price_per_night"`
	Amenities   []string  `json:"amenities"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListingCollection struct {
	Items []ListingRecord `json:"items"`
}

func MapListingRecord(l *domainlistings.Listing) ListingRecord {
	return ListingRecord{
		ID:          string(l.ID),
		HostID:      string(l.HostID),
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		NightlyRate: MapMoney(l.NightlyRate),
		Amenities:   append([]string(nil), l.Amenities...),
		ImageURL:    l.ImageURL,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
	}
}

func MapListingCollection(ls []*domainlistings.Listing) ListingCollection {
	items := make([]ListingRecord, 0, len(ls))
	for _, l := range ls {
		items = append(items, MapListingRecord(l))
	}
	return ListingCollection{Items: items}
}
