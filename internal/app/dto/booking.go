package dto

import (
	"time"

	domainbooking "staybnb/internal/domain/booking"
	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/daterange"
	"staybnb/internal/domain/shared/money"
	domainuser "staybnb/internal/domain/user"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

// BookingRecord is the full booking representation returned by mutation and
// list endpoints. Dates travel as ISO-8601 calendar dates without a time
// component.
type BookingRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Total     MoneyDTO  `json:"total_price"`
	Status    string    `json:"booking_status"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingRecord `json:"items"`
}

func MapBookingRecord(b *domainbooking.Booking) BookingRecord {
	return BookingRecord{
		ID:        string(b.ID),
		UserID:    string(b.GuestID),
		ListingID: string(b.ListingID),
		CheckIn:   b.Range.CheckIn.Format(daterange.DateLayout),
		CheckOut:  b.Range.CheckOut.Format(daterange.DateLayout),
		Total:     MapMoney(b.Total),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func MapBookingCollection(bs []*domainbooking.Booking) BookingCollection {
	items := make([]BookingRecord, 0, len(bs))
	for _, b := range bs {
		items = append(items, MapBookingRecord(b))
	}
	return BookingCollection{Items: items}
}

// BookingDetail denormalizes guest and listing names for the single-booking
// read endpoint.
type BookingDetail struct {
	ID       string `json:"id"`
	Guest    string `json:"guest"`
	Listing  string `json:"listing"`
	CheckIn  string `json:"checkin"`
	CheckOut string `json:"checkout"`
	Status   string `json:"status"`
}

func MapBookingDetail(b *domainbooking.Booking, guest *domainuser.User, listing *domainlistings.Listing) BookingDetail {
	detail := BookingDetail{
		ID:       string(b.ID),
		CheckIn:  b.Range.CheckIn.Format(daterange.DateLayout),
		CheckOut: b.Range.CheckOut.Format(daterange.DateLayout),
		Status:   string(b.Status),
	}
	if guest != nil {
		detail.Guest = guest.Username
	}
	if listing != nil {
		detail.Listing = listing.Title
	}
	return detail
}

// HostBookingSummary is a booking as seen from the host dashboard.
type HostBookingSummary struct {
	BookingID    string    `json:"booking_id"`
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	GuestID      string    `json:"guest_id"`
	GuestName    string    `json:"guest_name"`
	CheckIn      string    `json:"check_in"`
	CheckOut     string    `json:"check_out"`
	Total        MoneyDTO  `json:"total_price"`
	Status       string    `json:"booking_status"`
	CreatedAt    time.Time `json:"created_at"`
}

type HostBookingCollection struct {
	Items []HostBookingSummary `json:"items"`
}

func MapHostBookingSummary(b *domainbooking.Booking, listing *domainlistings.Listing, guest *domainuser.User) HostBookingSummary {
	s := HostBookingSummary{
		BookingID: string(b.ID),
		ListingID: string(b.ListingID),
		GuestID:   string(b.GuestID),
		CheckIn:   b.Range.CheckIn.Format(daterange.DateLayout),
		CheckOut:  b.Range.CheckOut.Format(daterange.DateLayout),
		Total:     MapMoney(b.Total),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
	if listing != nil {
		s.ListingTitle = listing.Title
	}
	if guest != nil {
		s.GuestName = guest.Username
	}
	return s
}

type AvailabilityResult struct {
	Available bool `json:"available"`
}

type EarningsReport struct {
	TotalEarnings MoneyDTO `json:"total_earnings"`
}
