package handlers

import (
	"net/http"

	"github.com/bilashs/StudyBuddy-Server/internal/services"
	"github.com/bilashs/StudyBuddy-Server/pkg/logger"
	"github.com/bilashs/StudyBuddy-Server/pkg/middleware"
	"github.com/gorilla/mux"
)

// FriendHandler manages HTTP endpoints related to the social graph.
type FriendHandler struct {
	Service *services.RelationshipService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.RelationshipService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SearchUsersHandler prefix-searches usernames, excluding self and friends.
func (h *FriendHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to search users")
		return
	}

	prefix := r.URL.Query().Get("q")
	results, err := h.Service.SearchUsers(r.Context(), claims.UserID, prefix)
	if err != nil {
		logger.Log.Warnf("User search failed: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// SendFriendRequestHandler allows a user to send a friend request.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to send friend request")
		return
	}

	receiverID := mux.Vars(r)["id"]
	if err := h.Service.SendRequest(r.Context(), claims.UserID, receiverID); err != nil {
		logger.Log.Warnf("Failed to send friend request: %v", err)
		writeServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", claims.UserID, receiverID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request sent"})
}

// GetPendingRequestsHandler shows all incoming friend requests.
func (h *FriendHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requests, err := h.Service.ListIncomingRequests(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.Errorf("Failed to get pending requests: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// AcceptFriendRequestHandler accepts a pending request from the given user.
func (h *FriendHandler) AcceptFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	senderID := mux.Vars(r)["id"]
	if err := h.Service.AcceptRequest(r.Context(), senderID, claims.UserID); err != nil {
		logger.Log.Errorf("Failed to accept friend request from %s: %v", senderID, err)
		writeServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s accepted a friend request from %s", claims.UserID, senderID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request accepted"})
}

// DeclineFriendRequestHandler declines a pending request from the given user.
func (h *FriendHandler) DeclineFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	senderID := mux.Vars(r)["id"]
	if err := h.Service.DeclineRequest(r.Context(), senderID, claims.UserID); err != nil {
		logger.Log.Errorf("Failed to decline friend request from %s: %v", senderID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request declined"})
}

// GetAcceptanceNoticesHandler lists who accepted this user's requests since
// the last acknowledgment.
func (h *FriendHandler) GetAcceptanceNoticesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notices, err := h.Service.ListAcceptanceNotices(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.Errorf("Failed to get acceptance notices: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notices)
}

// AcknowledgeAcceptanceHandler consumes the one-time acceptance notice from
// the given acceptor.
func (h *FriendHandler) AcknowledgeAcceptanceHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	acceptorID := mux.Vars(r)["id"]
	if err := h.Service.AcknowledgeAcceptance(r.Context(), claims.UserID, acceptorID); err != nil {
		logger.Log.Errorf("Failed to acknowledge acceptance from %s: %v", acceptorID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Acceptance acknowledged"})
}

// GetFriendsHandler returns the user's resolved friends list.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get friends")
		return
	}

	friends, err := h.Service.ListFriends(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch friends for user %s: %v", claims.UserID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, friends)
}

// RemoveFriendHandler removes the given user from the caller's friends list.
// The reverse direction is left untouched.
func (h *FriendHandler) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID := mux.Vars(r)["id"]
	if err := h.Service.RemoveFriend(r.Context(), claims.UserID, otherID); err != nil {
		logger.Log.Errorf("Failed to remove friend %s: %v", otherID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}
