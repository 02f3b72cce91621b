package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilashs/StudyBuddy-Server/internal/services"
	"github.com/bilashs/StudyBuddy-Server/pkg/logger"
	"github.com/bilashs/StudyBuddy-Server/pkg/middleware"
	"github.com/gorilla/mux"
)

// SessionHandler manages HTTP endpoints for collaborative study sessions.
type SessionHandler struct {
	Service    *services.SessionService
	SetService *services.SetService
}

func NewSessionHandler(service *services.SessionService, setService *services.SetService) *SessionHandler {
	return &SessionHandler{Service: service, SetService: setService}
}

// CreateSessionHandler creates a session with the caller as sole member.
func (h *SessionHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Name   string            `json:"name"`
		SetIDs map[string]string `json:"set_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	session, err := h.Service.CreateSession(r.Context(), body.Name, claims.UserID, claims.Username, body.SetIDs)
	if err != nil {
		logger.Log.Errorf("Failed to create session: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// JoinSessionHandler joins the session matching the submitted code. An
// unknown code reports a specific not-found message rather than a generic
// error.
func (h *SessionHandler) JoinSessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	session, err := h.Service.JoinSession(r.Context(), body.Code, claims.UserID)
	if err != nil {
		logger.Log.Warnf("Join session failed for code %q: %v", body.Code, err)
		writeServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s joined session %s", claims.UserID, session.ID)
	writeJSON(w, http.StatusOK, session)
}

// GetSessionHandler returns one session with its shared sets resolved.
func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	session, err := h.Service.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setIDs := make([]string, 0, len(session.SetIDs))
	for setID := range session.SetIDs {
		setIDs = append(setIDs, setID)
	}
	sets, err := h.SetService.GetSetsByIDs(r.Context(), setIDs)
	if err != nil {
		logger.Log.Errorf("Failed to resolve session sets: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"sets":    sets,
	})
}

// AddSetsHandler merges the caller's contributed sets into the session.
func (h *SessionHandler) AddSetsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	var body struct {
		SetIDs []string `json:"set_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	entries := make(map[string]string, len(body.SetIDs))
	for _, setID := range body.SetIDs {
		entries[setID] = claims.Username
	}

	if err := h.Service.AddSetsToSession(r.Context(), id, entries); err != nil {
		logger.Log.Errorf("Failed to add sets to session %s: %v", id, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Sets added to session"})
}

// ListSessionsHandler returns every session the caller belongs to.
func (h *SessionHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessions, err := h.Service.ListMemberSessions(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.Errorf("Failed to list sessions: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}
