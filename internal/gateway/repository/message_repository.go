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

// MessageRepository definition message store
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, messageID string) (*domain.Message, error)
	// Update 以整份文件覆寫，呼叫端需持有該訊息的鎖
	Update(ctx context.Context, msg *domain.Message) error
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection("messages"),
	}
}

// Insert write one message
func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return errprocess.Set(fmt.Sprintf("insert message err: %v", err))
	}
	return nil
}

// FindByID find message by id
func (r *messageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	var msg domain.Message
	err := r.coll.FindOne(ctx, bson.M{"_id": messageID}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errprocess.Set(fmt.Sprintf("find message err: %v", err))
	}
	return &msg, nil
}

// Update overwrite message document
func (r *messageRepository) Update(ctx context.Context, msg *domain.Message) error {
	filter := bson.M{"_id": msg.ID}
	update := bson.M{"$set": msg}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return errprocess.Set(fmt.Sprintf("update message err: %v", err))
	}
	return nil
}
