package accounts

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"taskmanager/internal/models"
)

// MongoStore persists accounts in a MongoDB collection. A unique index on
// email (created at startup) backs ErrEmailTaken.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("error retrieving account: %v", err)
	}
	return user, nil
}

func (s *MongoStore) Insert(ctx context.Context, username, email, passwordHash string) (string, error) {
	res, err := s.col.InsertOne(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrEmailTaken
	}
	if err != nil {
		return "", fmt.Errorf("error inserting account: %v", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *MongoStore) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"password_hash": hash},
	})
	if err != nil {
		return fmt.Errorf("error updating password hash: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
