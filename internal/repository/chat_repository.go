package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository handles message and conversation documents.
type ChatRepository struct {
	messages      *mongo.Collection
	conversations *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		messages:      db.Collection("messages"),
		conversations: db.Collection("conversations"),
	}
}

// InsertMessage writes a new message with seen=false.
func (r *ChatRepository) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.Timestamp = time.Now()
	msg.Seen = false

	result, err := r.messages.InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %v", err)
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return msg, nil
}

// GetMessages returns every message in a conversation, ascending by
// timestamp.
func (r *ChatRepository) GetMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	for cursor.Next(ctx) {
		var msg models.Message
		if err := cursor.Decode(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// GetLastMessage returns the newest message of a conversation, or nil when
// the conversation has none.
func (r *ChatRepository) GetLastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var msg models.Message
	err := r.messages.FindOne(ctx, bson.M{"chat_id": chatID}, opts).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last message: %v", err)
	}
	return &msg, nil
}

// markSeenFilter selects the unseen messages addressed to the viewer in one
// conversation. Messages the viewer sent are never matched.
func markSeenFilter(chatID, viewerID string) bson.M {
	return bson.M{"chat_id": chatID, "receiver_id": viewerID, "seen": false}
}

// markSeenUpdate only ever sets seen to true; there is no write path back to
// false, so the flag is monotonic.
func markSeenUpdate() bson.M {
	return bson.M{"$set": bson.M{"seen": true}}
}

// MarkSeen flips seen to true on every unseen message addressed to the
// viewer, as one batch.
func (r *ChatRepository) MarkSeen(ctx context.Context, chatID, viewerID string) (int64, error) {
	result, err := r.messages.UpdateMany(ctx, markSeenFilter(chatID, viewerID), markSeenUpdate())
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages seen: %v", err)
	}
	return result.ModifiedCount, nil
}

// CountUnseen counts unseen messages addressed to the viewer in one
// conversation.
func (r *ChatRepository) CountUnseen(ctx context.Context, chatID, viewerID string) (int64, error) {
	count, err := r.messages.CountDocuments(ctx,
		bson.M{"chat_id": chatID, "receiver_id": viewerID, "seen": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unseen messages: %v", err)
	}
	return count, nil
}

// UpsertConversation merges the denormalized preview fields into the
// conversation document, creating it on first message.
func (r *ChatRepository) UpsertConversation(ctx context.Context, convo *models.Conversation) error {
	update := bson.M{"$set": bson.M{
		"participants": convo.Participants,
		"last_message": convo.LastMessage,
		"last_sender":  convo.LastSender,
		"last_updated": convo.LastUpdated,
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.conversations.UpdateOne(ctx, bson.M{"_id": convo.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert conversation: %v", err)
	}
	return nil
}

// GetConversationsForUser returns every conversation the user participates
// in, newest activity first.
func (r *ChatRepository) GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %v", err)
	}
	defer cursor.Close(ctx)

	var convos []models.Conversation
	for cursor.Next(ctx) {
		var convo models.Conversation
		if err := cursor.Decode(&convo); err != nil {
			return nil, err
		}
		convos = append(convos, convo)
	}
	return convos, nil
}

// GetAllConversations returns every conversation document. Used by the
// preview repair job.
func (r *ChatRepository) GetAllConversations(ctx context.Context) ([]models.Conversation, error) {
	cursor, err := r.conversations.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %v", err)
	}
	defer cursor.Close(ctx)

	var convos []models.Conversation
	for cursor.Next(ctx) {
		var convo models.Conversation
		if err := cursor.Decode(&convo); err != nil {
			return nil, err
		}
		convos = append(convos, convo)
	}
	return convos, nil
}

// WatchMessages streams the full ascending message list of one conversation
// on every change, starting with the current state. The stream ends when ctx
// is cancelled; callers switching conversations cancel the old context before
// subscribing again so two streams never race into the same view.
func (r *ChatRepository) WatchMessages(ctx context.Context, chatID string) (<-chan []models.Message, error) {
	notify, err := watchCollection(ctx, r.messages)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Message, 1)
	go func() {
		defer close(out)
		send := func() {
			messages, err := r.GetMessages(ctx, chatID)
			if err != nil {
				logrus.WithError(err).Warn("Failed to refresh messages; keeping last state")
				return
			}
			select {
			case out <- messages:
			case <-ctx.Done():
			}
		}
		send()
		for range notify {
			send()
		}
	}()
	return out, nil
}

// WatchConversations streams the user's conversation set on every change.
func (r *ChatRepository) WatchConversations(ctx context.Context, userID string) (<-chan []models.Conversation, error) {
	notify, err := watchCollection(ctx, r.conversations)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Conversation, 1)
	go func() {
		defer close(out)
		send := func() {
			convos, err := r.GetConversationsForUser(ctx, userID)
			if err != nil {
				logrus.WithError(err).Warn("Failed to refresh conversations; keeping last state")
				return
			}
			select {
			case out <- convos:
			case <-ctx.Done():
			}
		}
		send()
		for range notify {
			send()
		}
	}()
	return out, nil
}
