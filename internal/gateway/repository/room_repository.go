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

// RoomRepository definition room store, membership CRUD 由外部協作者負責
type RoomRepository interface {
	FindByID(ctx context.Context, roomID string) (*domain.Room, error)
	FindByMember(ctx context.Context, userID string) ([]domain.Room, error)
	AddPinned(ctx context.Context, roomID, messageID string) error
	RemovePinned(ctx context.Context, roomID, messageID string) error
}

type roomRepository struct {
	coll *mongo.Collection
}

// NewMongoRoomRepository create a RoomRepository
func NewMongoRoomRepository(db *mongo.Database) RoomRepository {
	return &roomRepository{
		coll: db.Collection("rooms"),
	}
}

// FindByID find room by id
func (r *roomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	var room domain.Room
	err := r.coll.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errprocess.Set(fmt.Sprintf("find room err: %v", err))
	}
	return &room, nil
}

// FindByMember find all rooms userID belongs to
func (r *roomRepository) FindByMember(ctx context.Context, userID string) ([]domain.Room, error) {
	cur, err := r.coll.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("find rooms by member err: %v", err))
	}
	var rooms []domain.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("decode rooms err: %v", err))
	}
	return rooms, nil
}

// AddPinned append messageID to pinned_messages, no duplicate
func (r *roomRepository) AddPinned(ctx context.Context, roomID, messageID string) error {
	filter := bson.M{"_id": roomID}
	update := bson.M{"$addToSet": bson.M{"pinned_messages": messageID}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return errprocess.Set(fmt.Sprintf("add pinned err: %v", err))
	}
	return nil
}

// RemovePinned remove messageID from pinned_messages
func (r *roomRepository) RemovePinned(ctx context.Context, roomID, messageID string) error {
	filter := bson.M{"_id": roomID}
	update := bson.M{"$pull": bson.M{"pinned_messages": messageID}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return errprocess.Set(fmt.Sprintf("remove pinned err: %v", err))
	}
	return nil
}
