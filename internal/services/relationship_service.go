package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
)

// RelationshipService owns the friend-request lifecycle and the resulting
// friends list.
type RelationshipService struct {
	friendRepo FriendStore
	userRepo   UserStore
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(friendRepo FriendStore, userRepo UserStore) *RelationshipService {
	return &RelationshipService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest creates a pending request from one user to another. When an
// identical pending request already exists it is a silent no-op, so retries
// are idempotent.
func (s *RelationshipService) SendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return fmt.Errorf("%w: cannot send a friend request to yourself", ErrValidation)
	}

	existing, err := s.friendRepo.FindRequests(ctx, from, to)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logrus.WithFields(logrus.Fields{"from": from, "to": to}).
			Info("Friend request already pending; skipping")
		return nil
	}

	_, err = s.friendRepo.CreateRequest(ctx, &models.FriendRequest{From: from, To: to})
	return err
}

// AcceptRequest adds each user to the other's friends, deletes every matching
// pending request between the pair, and records an acceptance notice for the
// original requester. The writes are independent; a failure part-way leaves a
// transiently one-directional friendship that the same call repairs on retry.
// Re-running after success finds no requests and only re-unions friend ids,
// which set semantics make harmless.
func (s *RelationshipService) AcceptRequest(ctx context.Context, requestFrom, requestTo string) error {
	if err := s.userRepo.AddFriend(ctx, requestTo, requestFrom); err != nil {
		return fmt.Errorf("failed to add friend to acceptor: %v", err)
	}
	if err := s.userRepo.AddFriend(ctx, requestFrom, requestTo); err != nil {
		return fmt.Errorf("failed to add friend to requester: %v", err)
	}

	deleted, err := s.friendRepo.DeleteRequests(ctx, requestFrom, requestTo)
	if err != nil {
		return err
	}
	if deleted == 0 {
		// Already accepted earlier; nothing left to acknowledge.
		return nil
	}

	if err := s.friendRepo.CreateNotice(ctx, &models.AcceptedNotice{
		From: requestTo,
		To:   requestFrom,
	}); err != nil {
		// The friendship itself is already established.
		logrus.WithError(err).Warn("Failed to record acceptance notice")
	}

	logrus.WithFields(logrus.Fields{"from": requestFrom, "to": requestTo}).
		Info("Friend request accepted")
	return nil
}

// DeclineRequest deletes matching pending requests with no friendship side
// effect. Re-running is a no-op.
func (s *RelationshipService) DeclineRequest(ctx context.Context, from, to string) error {
	_, err := s.friendRepo.DeleteRequests(ctx, from, to)
	return err
}

// AcknowledgeAcceptance consumes the one-time acceptance notice on the
// original requester's side, re-unioning the friend id in case the accept's
// second write never landed.
func (s *RelationshipService) AcknowledgeAcceptance(ctx context.Context, self, acceptor string) error {
	if err := s.userRepo.AddFriend(ctx, self, acceptor); err != nil {
		return fmt.Errorf("failed to union friend on acknowledge: %v", err)
	}
	return s.friendRepo.DeleteNotices(ctx, acceptor, self)
}

// RemoveFriend removes other from self's friends list only. The reverse
// direction is deliberately left in place to match the shipped behavior of
// the app; the asymmetry is covered by tests so a future fix is an explicit
// change.
func (s *RelationshipService) RemoveFriend(ctx context.Context, self, other string) error {
	return s.userRepo.RemoveFriend(ctx, self, other)
}

// ListFriends resolves the user's friend ids to public profiles, skipping
// blank ids and ids that no longer resolve to a document.
func (s *RelationshipService) ListFriends(ctx context.Context, self string) ([]models.PublicUser, error) {
	friendIDs, err := s.userRepo.GetFriendIDs(ctx, self)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %v", err)
	}

	ids := make([]string, 0, len(friendIDs))
	for _, id := range friendIDs {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			logrus.WithField("userID", self).Warn("Skipping blank id in friends array")
			continue
		}
		ids = append(ids, trimmed)
	}
	if len(ids) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}

	friends := make([]models.PublicUser, 0, len(users))
	for i := range users {
		friends = append(friends, users[i].Public())
	}
	return friends, nil
}

// SearchUsers prefix-matches usernames, excluding self and existing friends,
// and annotates each hit with whether a pending outgoing request exists.
func (s *RelationshipService) SearchUsers(ctx context.Context, self, prefix string) ([]models.PublicUser, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, fmt.Errorf("%w: empty search prefix", ErrValidation)
	}

	friendIDs, err := s.userRepo.GetFriendIDs(ctx, self)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %v", err)
	}
	excluding := append([]string{self}, friendIDs...)

	users, err := s.userRepo.SearchUsersByUsernamePrefix(ctx, prefix, excluding)
	if err != nil {
		return nil, err
	}

	results := make([]models.PublicUser, 0, len(users))
	for i := range users {
		hit := users[i].Public()
		pending, err := s.friendRepo.FindRequests(ctx, self, users[i].ID)
		if err != nil {
			return nil, err
		}
		hit.HasBeenRequested = len(pending) > 0
		results = append(results, hit)
	}
	return results, nil
}

// ListIncomingRequests resolves the senders of pending incoming requests to
// public profiles, tolerant of dangling sender ids.
func (s *RelationshipService) ListIncomingRequests(ctx context.Context, self string) ([]models.PublicUser, error) {
	requests, err := s.friendRepo.GetRequestsByReceiver(ctx, self)
	if err != nil {
		return nil, err
	}

	senders := make([]string, 0, len(requests))
	for _, req := range requests {
		from := strings.TrimSpace(req.From)
		if from == "" {
			continue
		}
		senders = append(senders, from)
	}
	if len(senders) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, senders)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.PublicUser, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}

// ListAcceptanceNotices resolves unacknowledged acceptance notices to the
// acceptors' public profiles.
func (s *RelationshipService) ListAcceptanceNotices(ctx context.Context, self string) ([]models.PublicUser, error) {
	notices, err := s.friendRepo.GetNoticesForUser(ctx, self)
	if err != nil {
		return nil, err
	}

	acceptors := make([]string, 0, len(notices))
	for _, n := range notices {
		if strings.TrimSpace(n.From) == "" {
			continue
		}
		acceptors = append(acceptors, n.From)
	}
	if len(acceptors) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, acceptors)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.PublicUser, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}

// RequestBadges is the live badge state for the friends UI.
type RequestBadges struct {
	HasPendingRequests          bool `json:"has_pending_requests"`
	HasUnacknowledgedAcceptance bool `json:"has_unacknowledged_acceptance"`
}

// WatchBadges merges the incoming-request and acceptance-notice subscriptions
// into one boolean badge stream. The stream closes when ctx is cancelled.
func (s *RelationshipService) WatchBadges(ctx context.Context, self string) (<-chan RequestBadges, error) {
	requests, err := s.friendRepo.WatchIncomingRequests(ctx, self)
	if err != nil {
		return nil, err
	}
	notices, err := s.friendRepo.WatchNotices(ctx, self)
	if err != nil {
		return nil, err
	}

	out := make(chan RequestBadges, 1)
	go func() {
		defer close(out)
		var state RequestBadges
		for requests != nil || notices != nil {
			select {
			case rs, ok := <-requests:
				if !ok {
					requests = nil
					continue
				}
				state.HasPendingRequests = len(rs) > 0
			case ns, ok := <-notices:
				if !ok {
					notices = nil
					continue
				}
				state.HasUnacknowledgedAcceptance = len(ns) > 0
			case <-ctx.Done():
				return
			}
			select {
			case out <- state:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
