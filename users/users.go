package users

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository reads and updates user documents in a single collection.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{
		collection: collection,
	}
}

// FindByUsername returns the user whose username matches exactly.
func (r *Repository) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return User{}, ErrNotFound
	} else if err != nil {
		return User{}, fmt.Errorf("find user %q: %w", username, err)
	}
	return user, nil
}

// ListUsers returns every user without password hashes, sorted by username.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	opts := options.Find().
		SetProjection(bson.M{"username": 1, "email": 1, "role": 1}).
		SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// UpdatePasswordHash sets hashed_password on the document matching username.
func (r *Repository) UpdatePasswordHash(ctx context.Context, username, hash string) (UpdateResult, error) {
	filter := bson.M{"username": username}
	update := bson.M{"$set": bson.M{"hashed_password": hash}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update password for %q: %w", username, err)
	}
	return UpdateResult{
		Matched:  result.MatchedCount,
		Modified: result.ModifiedCount,
	}, nil
}
