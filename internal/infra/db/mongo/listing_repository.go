package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "staybnb/internal/domain/listings"
	"staybnb/internal/domain/shared/money"
	domainuser "staybnb/internal/domain/user"
)

const listingCollection = "listings"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(listingCollection)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) ListByHost(ctx context.Context, hostID domainuser.ID) ([]*domainlistings.Listing, error) {
	return r.list(ctx, bson.M{"host_id": string(hostID)})
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]*domainlistings.Listing, error) {
	return r.list(ctx, bson.M{})
}

func (r *ListingRepository) list(ctx context.Context, filter bson.M) ([]*domainlistings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainlistings.Listing
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type listingDocument struct {
	ID          string        `bson:"_id"`
	HostID      string        `bson:"host_id"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Location    string        `bson:"location"`
	NightlyRate moneyDocument `bson:"nightly_rate"`
	Amenities   []string      `bson:"amenities"`
	ImageURL    string        `bson:"image_url"`
	Status      string        `bson:"status"`
	CreatedAt   int64         `bson:"created_at"`
	UpdatedAt   int64         `bson:"updated_at"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:          string(l.ID),
		HostID:      string(l.HostID),
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		NightlyRate: moneyDocument{Amount: l.NightlyRate.Amount, Currency: l.NightlyRate.Currency},
		Amenities:   l.Amenities,
		ImageURL:    l.ImageURL,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt.UnixMilli(),
		UpdatedAt:   l.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:          domainlistings.ListingID(d.ID),
		HostID:      domainuser.ID(d.HostID),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		NightlyRate: money.Money{Amount: d.NightlyRate.Amount, Currency: d.NightlyRate.Currency},
		Amenities:   d.Amenities,
		ImageURL:    d.ImageURL,
		Status:      domainlistings.Status(d.Status),
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
	}
}
