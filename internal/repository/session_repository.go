package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository handles study session documents.
type SessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{
		collection: db.Collection("sessions"),
	}
}

// CreateSession inserts a new session. The code is taken as-is; uniqueness is
// not enforced here.
func (r *SessionRepository) CreateSession(ctx context.Context, session *models.StudySession) (*models.StudySession, error) {
	session.Timestamp = time.Now()
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to insert session: %v", err)
	}
	return session, nil
}

// GetSessionByID fetches one session, or (nil, nil) when absent.
func (r *SessionRepository) GetSessionByID(ctx context.Context, id string) (*models.StudySession, error) {
	var session models.StudySession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %v", err)
	}
	return &session, nil
}

// FindSessionByCode returns the session with the given code, or (nil, nil)
// when no session matches. Codes are not unique by construction, so the
// result is pinned to the first document in ascending _id order, which is
// arbitrary but stable.
func (r *SessionRepository) FindSessionByCode(ctx context.Context, code string) (*models.StudySession, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	var session models.StudySession
	err := r.collection.FindOne(ctx, bson.M{"session_code": code}, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session by code: %v", err)
	}
	return &session, nil
}

// AddMember unions a user into the session's member set. Rejoining is a
// no-op.
func (r *SessionRepository) AddMember(ctx context.Context, sessionID, userID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$addToSet": bson.M{"member_ids": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add session member: %v", err)
	}
	return nil
}

// MergeSets merges entries into the session's set map; new entries overwrite
// existing keys. When the session no longer exists nothing is written.
func (r *SessionRepository) MergeSets(ctx context.Context, sessionID string, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	fields := bson.M{}
	for setID, username := range entries {
		fields["set_ids."+setID] = username
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": sessionID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to merge session sets: %v", err)
	}
	if result.MatchedCount == 0 {
		logrus.WithField("sessionID", sessionID).Warn("Skipped set merge for missing session")
	}
	return nil
}

// GetSessionsByMember returns every session the user belongs to, newest
// first.
func (r *SessionRepository) GetSessionsByMember(ctx context.Context, userID string) ([]models.StudySession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"member_ids": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %v", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.StudySession
	for cursor.Next(ctx) {
		var session models.StudySession
		if err := cursor.Decode(&session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// WatchMemberSessions streams the user's session list on every change,
// starting with the current state.
func (r *SessionRepository) WatchMemberSessions(ctx context.Context, userID string) (<-chan []models.StudySession, error) {
	notify, err := watchCollection(ctx, r.collection)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.StudySession, 1)
	go func() {
		defer close(out)
		send := func() {
			sessions, err := r.GetSessionsByMember(ctx, userID)
			if err != nil {
				logrus.WithError(err).Warn("Failed to refresh sessions; keeping last state")
				return
			}
			select {
			case out <- sessions:
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
