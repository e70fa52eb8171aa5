package triprepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// MongoRepository stores saved itineraries as documents.
type MongoRepository struct {
	collection *mongo.Collection
}

// Connect dials MongoDB and returns the client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewMongoRepository binds the repository to a collection.
func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

// EnsureIndexes creates the per-user listing index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, it itinerary.SavedItinerary) (itinerary.SavedItinerary, error) {
	if _, err := r.collection.InsertOne(ctx, it); err != nil {
		return itinerary.SavedItinerary{}, err
	}
	return it, nil
}

func (r *MongoRepository) Get(ctx context.Context, userID, id string) (itinerary.SavedItinerary, bool, error) {
	var it itinerary.SavedItinerary
	err := r.collection.FindOne(ctx, ownedBy(userID, id)).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return itinerary.SavedItinerary{}, false, nil
	}
	if err != nil {
		return itinerary.SavedItinerary{}, false, err
	}
	return it, true, nil
}

func (r *MongoRepository) List(ctx context.Context, userID string) ([]itinerary.SavedItinerary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]itinerary.SavedItinerary, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, ownedBy(userID, id))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func ownedBy(userID, id string) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}

var _ itinerary.Repository = (*MongoRepository)(nil)
