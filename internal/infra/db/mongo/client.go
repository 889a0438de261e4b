package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	DB *mongo.Database
}

func New(uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the repositories rely on. The booking
// overlap index keeps availability probes off a collection scan.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	bookingIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "range.check_out", Value: 1}}},
		{Keys: bson.D{{Key: "guest_id", Value: 1}}},
	}
	if _, err := c.DB.Collection(bookingCollection).Indexes().CreateMany(ctx, bookingIdx); err != nil {
		return err
	}
	listingIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "host_id", Value: 1}}},
	}
	if _, err := c.DB.Collection(listingCollection).Indexes().CreateMany(ctx, listingIdx); err != nil {
		return err
	}
	userIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := c.DB.Collection(userCollection).Indexes().CreateMany(ctx, userIdx); err != nil {
		return err
	}
	reviewIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "listing_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
	}
	if _, err := c.DB.Collection(reviewCollection).Indexes().CreateMany(ctx, reviewIdx); err != nil {
		return err
	}
	favoriteIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := c.DB.Collection(favoriteCollection).Indexes().CreateMany(ctx, favoriteIdx); err != nil {
		return err
	}
	sessionIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
	if _, err := c.DB.Collection(sessionCollection).Indexes().CreateMany(ctx, sessionIdx); err != nil {
		return err
	}
	return nil
}
