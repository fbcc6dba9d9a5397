package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pantry-chef-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "users"
	inventoryCollection = "inventory_items"
)

// MongoStore implements Store using MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	users  *mongo.Collection
	items  *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to MongoDB and ensures the indexes exist.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	store := &MongoStore{
		client: client,
		db:     db,
		users:  db.Collection(usersCollection),
		items:  db.Collection(inventoryCollection),
	}

	// The unique index is what makes GetOrCreate race-safe, so failing to build it is fatal.
	_, err = store.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "external_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = store.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		log.Printf("[MongoStore] Warning: failed to create inventory index: %v", err)
	}

	log.Printf("[MongoStore] Connected to %s", database)
	return store, nil
}

// ListByOwner returns the user's items, newest first.
func (s *MongoStore) ListByOwner(ctx context.Context, userID string) ([]model.InventoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.items.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	var items []model.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	return items, nil
}

// Create inserts a new item.
func (s *MongoStore) Create(ctx context.Context, item *model.InventoryItem) error {
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

// GetByID returns one item.
func (s *MongoStore) GetByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := s.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

// Update writes the mutable fields of an owned item.
func (s *MongoStore) Update(ctx context.Context, item *model.InventoryItem) error {
	filter := bson.M{"_id": item.ID, "user_id": item.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":       item.Name,
			"quantity":   item.Quantity,
			"unit":       item.Unit,
			"category":   item.Category,
			"updated_at": item.UpdatedAt,
		},
	}

	result, err := s.items.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an owned item.
func (s *MongoStore) Delete(ctx context.Context, id, userID string) error {
	result, err := s.items.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByExternalID returns the user with the given external id.
func (s *MongoStore) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var user model.User
	err := s.users.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetOrCreate upserts on the unique external_id index. Two concurrent upserts can both
// miss and insert; the loser gets a duplicate key error and reads the winner's document.
func (s *MongoStore) GetOrCreate(ctx context.Context, candidate *model.User) (*model.User, error) {
	onInsert := bson.M{
		"_id":        candidate.ID,
		"created_at": candidate.CreatedAt,
		"updated_at": candidate.UpdatedAt,
	}
	if candidate.Email != nil {
		onInsert["email"] = *candidate.Email
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user model.User
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"external_id": candidate.ExternalID},
		bson.M{"$setOnInsert": onInsert},
		opts,
	).Decode(&user)
	if mongo.IsDuplicateKeyError(err) {
		return s.GetByExternalID(ctx, candidate.ExternalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	return &user, nil
}

// Backend names the storage engine.
func (s *MongoStore) Backend() string {
	return "mongodb"
}

// Ping verifies the connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// GetStats returns document counts and collection size.
func (s *MongoStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{
		"backend": "mongodb",
	}

	users, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	items, err := s.items.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats["total_users"] = users
	stats["total_inventory_items"] = items

	result := s.db.RunCommand(ctx, bson.D{{Key: "collStats", Value: inventoryCollection}})
	var collStats bson.M
	if err := result.Decode(&collStats); err == nil {
		switch size := collStats["size"].(type) {
		case int64:
			stats["db_size_bytes"] = size
		case int32:
			stats["db_size_bytes"] = int64(size)
		}
	}

	return stats, nil
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
