package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainfavorites "staybnb/internal/domain/favorites"
	domainlistings "staybnb/internal/domain/listings"
	domainuser "staybnb/internal/domain/user"
)

const favoriteCollection = "favorites"

type FavoriteRepository struct {
	col *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{col: db.Collection(favoriteCollection)}
}

func (r *FavoriteRepository) ByID(ctx context.Context, id domainfavorites.FavoriteID) (*domainfavorites.Favorite, error) {
	return r.one(ctx, bson.M{"_id": string(id)})
}

func (r *FavoriteRepository) ByUserAndListing(ctx context.Context, userID domainuser.ID, listingID domainlistings.ListingID) (*domainfavorites.Favorite, error) {
	return r.one(ctx, bson.M{"user_id": string(userID), "listing_id": string(listingID)})
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainfavorites.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": string(userID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainfavorites.Favorite
	for cur.Next(ctx) {
		var doc favoriteDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *FavoriteRepository) Insert(ctx context.Context, favorite *domainfavorites.Favorite) error {
	_, err := r.col.InsertOne(ctx, newFavoriteDocument(favorite))
	return err
}

func (r *FavoriteRepository) Delete(ctx context.Context, id domainfavorites.FavoriteID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainfavorites.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) one(ctx context.Context, filter bson.M) (*domainfavorites.Favorite, error) {
	var doc favoriteDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainfavorites.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

type favoriteDocument struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	ListingID string `bson:"listing_id"`
	Note      string `bson:"note"`
	CreatedAt int64  `bson:"created_at"`
}

func newFavoriteDocument(favorite *domainfavorites.Favorite) favoriteDocument {
	return favoriteDocument{
		ID:        string(favorite.ID),
		UserID:    string(favorite.UserID),
		ListingID: string(favorite.ListingID),
		Note:      favorite.Note,
		CreatedAt: favorite.CreatedAt.UnixMilli(),
	}
}

func (d favoriteDocument) toAggregate() *domainfavorites.Favorite {
	return &domainfavorites.Favorite{
		ID:        domainfavorites.FavoriteID(d.ID),
		UserID:    domainuser.ID(d.UserID),
		ListingID: domainlistings.ListingID(d.ListingID),
		Note:      d.Note,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainfavorites.Repository = (*FavoriteRepository)(nil)
