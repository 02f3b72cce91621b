package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilashs/StudyBuddy-Server/internal/services"
	"github.com/bilashs/StudyBuddy-Server/pkg/logger"
	"github.com/bilashs/StudyBuddy-Server/pkg/middleware"
	"github.com/gorilla/mux"
)

// ChatHandler manages HTTP endpoints for direct messaging.
type ChatHandler struct {
	Service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

// SendMessageHandler writes a message to the conversation with the given
// user. Blank text is rejected before anything is written, so the client can
// restore the input untouched.
func (h *ChatHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	receiverID := mux.Vars(r)["id"]
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	msg, err := h.Service.SendMessage(r.Context(), claims.UserID, receiverID, body.Text)
	if err != nil {
		logger.Log.Warnf("Failed to send message: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// GetMessagesHandler returns the conversation with the given user as a
// render-ready sequence with date separators.
func (h *ChatHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID := mux.Vars(r)["id"]
	chatID := services.ConversationID(claims.UserID, otherID)

	messages, err := h.Service.GetMessages(r.Context(), chatID)
	if err != nil {
		logger.Log.Errorf("Failed to get chat history: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services.GroupMessagesWithSeparators(messages))
}

// MarkSeenHandler marks every unseen message from the given user as seen.
func (h *ChatHandler) MarkSeenHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID := mux.Vars(r)["id"]
	chatID := services.ConversationID(claims.UserID, otherID)

	if err := h.Service.MarkSeen(r.Context(), chatID, claims.UserID); err != nil {
		logger.Log.Errorf("Failed to mark messages seen: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked seen"})
}

// GetPreviewsHandler returns the caller's conversation list. With
// ?cached=true it serves the last local snapshot when one exists, for
// instant painting before live data arrives.
func (h *ChatHandler) GetPreviewsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.URL.Query().Get("cached") == "true" {
		if previews := h.Service.CachedPreviews(claims.UserID); previews != nil {
			writeJSON(w, http.StatusOK, previews)
			return
		}
	}

	previews, err := h.Service.ListConversationPreviews(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.Errorf("Failed to list chat previews: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, previews)
}
