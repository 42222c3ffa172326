package repository

import (
	"context"
	"errors"
	"fmt"

	"social_chat_service/internal/gateway/domain"
	errprocess "social_chat_service/pkg/err"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository definition user store; gateway 只讀取與更新 presence 欄位
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	SetStatus(ctx context.Context, userID string, status domain.PresenceStatus, lastSeen int64) error
}

type userRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository create a UserRepository
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		coll: db.Collection("users"),
	}
}

// FindByID find user by id
func (r *userRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errprocess.Set(fmt.Sprintf("find user err: %v", err))
	}
	return &user, nil
}

// FindByUsername find user by username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errprocess.Set(fmt.Sprintf("find user by username err: %v", err))
	}
	return &user, nil
}

// SetStatus update presence fields for out-of-band REST readers
func (r *userRepository) SetStatus(ctx context.Context, userID string, status domain.PresenceStatus, lastSeen int64) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"status": status, "last_seen": lastSeen}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return errprocess.Set(fmt.Sprintf("set user status err: %v", err))
	}
	return nil
}
