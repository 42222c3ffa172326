package repository

import (
	"context"
	"errors"
	"fmt"

	"social_chat_service/internal/gateway/domain"
	errprocess "social_chat_service/pkg/err"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PrivateChatRepository definition private chat store
type PrivateChatRepository interface {
	Create(ctx context.Context, chat *domain.PrivateChat) error
	FindByID(ctx context.Context, chatID string) (*domain.PrivateChat, error)
	FindByPair(ctx context.Context, userA, userB string) (*domain.PrivateChat, error)
	FindByParticipant(ctx context.Context, userID string) ([]domain.PrivateChat, error)
}

type privateChatRepository struct {
	coll *mongo.Collection
}

// NewMongoPrivateChatRepository create a PrivateChatRepository,
// pair_key 建唯一索引：同一對參與者至多一筆
func NewMongoPrivateChatRepository(db *mongo.Database) PrivateChatRepository {
	coll := db.Collection("private_chats")
	_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &privateChatRepository{coll: coll}
}

// Create insert chat, duplicate pair returns the unique index error
func (r *privateChatRepository) Create(ctx context.Context, chat *domain.PrivateChat) error {
	chat.PairKey = domain.PairKeyOf(chat.Participants[0], chat.Participants[1])
	_, err := r.coll.InsertOne(ctx, chat)
	return err
}

// FindByID find chat by id
func (r *privateChatRepository) FindByID(ctx context.Context, chatID string) (*domain.PrivateChat, error) {
	var chat domain.PrivateChat
	err := r.coll.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errprocess.Set(fmt.Sprintf("find chat err: %v", err))
	}
	return &chat, nil
}

// FindByPair find chat of the unordered pair
func (r *privateChatRepository) FindByPair(ctx context.Context, userA, userB string) (*domain.PrivateChat, error) {
	var chat domain.PrivateChat
	err := r.coll.FindOne(ctx, bson.M{"pair_key": domain.PairKeyOf(userA, userB)}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errprocess.Set(fmt.Sprintf("find chat by pair err: %v", err))
	}
	return &chat, nil
}

// FindByParticipant find all chats userID participates in
func (r *privateChatRepository) FindByParticipant(ctx context.Context, userID string) ([]domain.PrivateChat, error) {
	cur, err := r.coll.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("find chats by participant err: %v", err))
	}
	var chats []domain.PrivateChat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("decode chats err: %v", err))
	}
	return chats, nil
}
