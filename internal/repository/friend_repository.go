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
)

// FriendRepository handles friend request and accepted-notice documents.
type FriendRepository struct {
	requests *mongo.Collection
	notices  *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		requests: db.Collection("friend_requests"),
		notices:  db.Collection("accepted_notices"),
	}
}

// CreateRequest inserts a pending friend request.
func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.CreatedAt = time.Now()

	result, err := r.requests.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send friend request: %v", err)
	}
	req.ID = result.InsertedID.(primitive.ObjectID)
	return req, nil
}

// FindRequests returns all pending requests for the ordered (from, to) pair.
func (r *FriendRepository) FindRequests(ctx context.Context, from, to string) ([]models.FriendRequest, error) {
	cursor, err := r.requests.Find(ctx, bson.M{"from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// DeleteRequests removes every pending request for the ordered (from, to)
// pair and reports how many were deleted. Zero is a legal outcome.
func (r *FriendRepository) DeleteRequests(ctx context.Context, from, to string) (int64, error) {
	result, err := r.requests.DeleteMany(ctx, bson.M{"from": from, "to": to})
	if err != nil {
		return 0, fmt.Errorf("failed to delete friend requests: %v", err)
	}
	return result.DeletedCount, nil
}

// GetRequestsByReceiver fetches all incoming requests for a user.
func (r *FriendRepository) GetRequestsByReceiver(ctx context.Context, receiverID string) ([]models.FriendRequest, error) {
	cursor, err := r.requests.Find(ctx, bson.M{"to": receiverID})
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// CreateNotice records an acceptance acknowledgment for the original
// requester.
func (r *FriendRepository) CreateNotice(ctx context.Context, notice *models.AcceptedNotice) error {
	notice.CreatedAt = time.Now()
	if _, err := r.notices.InsertOne(ctx, notice); err != nil {
		return fmt.Errorf("failed to create accepted notice: %v", err)
	}
	return nil
}

// GetNoticesForUser fetches unacknowledged acceptance notices addressed to
// the user.
func (r *FriendRepository) GetNoticesForUser(ctx context.Context, userID string) ([]models.AcceptedNotice, error) {
	cursor, err := r.notices.Find(ctx, bson.M{"to": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find accepted notices: %v", err)
	}
	defer cursor.Close(ctx)

	var notices []models.AcceptedNotice
	for cursor.Next(ctx) {
		var n models.AcceptedNotice
		if err := cursor.Decode(&n); err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// DeleteNotices consumes the notices from one acceptor to one requester.
func (r *FriendRepository) DeleteNotices(ctx context.Context, from, to string) error {
	if _, err := r.notices.DeleteMany(ctx, bson.M{"from": from, "to": to}); err != nil {
		return fmt.Errorf("failed to delete accepted notices: %v", err)
	}
	return nil
}

// DeleteNoticesOlderThan drops orphaned notices past the cutoff. Used by the
// maintenance cron.
func (r *FriendRepository) DeleteNoticesOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.notices.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale notices: %v", err)
	}
	return result.DeletedCount, nil
}

// WatchIncomingRequests streams the full set of pending incoming requests for
// the user on every change, starting with the current state.
func (r *FriendRepository) WatchIncomingRequests(ctx context.Context, userID string) (<-chan []models.FriendRequest, error) {
	notify, err := watchCollection(ctx, r.requests)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.FriendRequest, 1)
	go func() {
		defer close(out)
		send := func() {
			requests, err := r.GetRequestsByReceiver(ctx, userID)
			if err != nil {
				logrus.WithError(err).Warn("Failed to refresh incoming requests; keeping last state")
				return
			}
			select {
			case out <- requests:
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

// WatchNotices streams the full set of unacknowledged acceptance notices for
// the user on every change.
func (r *FriendRepository) WatchNotices(ctx context.Context, userID string) (<-chan []models.AcceptedNotice, error) {
	notify, err := watchCollection(ctx, r.notices)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.AcceptedNotice, 1)
	go func() {
		defer close(out)
		send := func() {
			notices, err := r.GetNoticesForUser(ctx, userID)
			if err != nil {
				logrus.WithError(err).Warn("Failed to refresh accepted notices; keeping last state")
				return
			}
			select {
			case out <- notices:
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
