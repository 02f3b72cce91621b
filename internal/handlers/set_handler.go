package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/bilashs/StudyBuddy-Server/internal/services"
	"github.com/bilashs/StudyBuddy-Server/pkg/logger"
	"github.com/bilashs/StudyBuddy-Server/pkg/middleware"
	"github.com/gorilla/mux"
)

// SetHandler manages HTTP endpoints for study sets, folders and the study
// game modes.
type SetHandler struct {
	Service *services.SetService
}

func NewSetHandler(service *services.SetService) *SetHandler {
	return &SetHandler{Service: service}
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

type setPayload struct {
	Title string                 `json:"title"`
	Terms []models.FlashcardTerm `json:"terms"`
}

// CreateSetHandler stores a new flashcard set for the caller.
func (h *SetHandler) CreateSetHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body setPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	set, err := h.Service.CreateSet(r.Context(), claims.UserID, claims.Username, body.Title, body.Terms)
	if err != nil {
		logger.Log.Warnf("Failed to create set: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

// ListSetsHandler returns the caller's sets grouped by creation month for
// the library view.
func (h *SetHandler) ListSetsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sets, err := h.Service.ListSets(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.Errorf("Failed to list sets: %v", err)
		writeServiceError(w, err)
		return
	}

	if r.URL.Query().Get("grouped") == "true" {
		writeJSON(w, http.StatusOK, services.GroupSetsByMonth(sets))
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// GetSetHandler returns one set.
func (h *SetHandler) GetSetHandler(w http.ResponseWriter, r *http.Request) {
	set, err := h.Service.GetSet(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// UpdateSetHandler overwrites the title and terms of an owned set.
func (h *SetHandler) UpdateSetHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body setPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateSet(r.Context(), claims.UserID, mux.Vars(r)["id"], body.Title, body.Terms); err != nil {
		logger.Log.Warnf("Failed to update set: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Set updated"})
}

// DeleteSetHandler removes an owned set.
func (h *SetHandler) DeleteSetHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteSet(r.Context(), claims.UserID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Set deleted"})
}

// FlashcardsHandler returns the set's terms shuffled for a flashcard run.
func (h *SetHandler) FlashcardsHandler(w http.ResponseWriter, r *http.Request) {
	set, err := h.Service.GetSet(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.ShuffleTerms(newRNG(), set.Terms))
}

// PracticeTestHandler returns a generated multiple-choice test for the set.
func (h *SetHandler) PracticeTestHandler(w http.ResponseWriter, r *http.Request) {
	set, err := h.Service.GetSet(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.BuildPracticeTest(newRNG(), set.Terms))
}

// MatchGameHandler returns successive tile boards for the match game. The
// client reports the terms already used; an empty board means the game is
// complete.
func (h *SetHandler) MatchGameHandler(w http.ResponseWriter, r *http.Request) {
	set, err := h.Service.GetSet(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var body struct {
		UsedTerms []string `json:"used_terms"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	used := make(map[string]bool, len(body.UsedTerms))
	for _, term := range body.UsedTerms {
		used[term] = true
	}

	tiles := services.NextMatchBatch(newRNG(), set.Terms, used)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tiles":    tiles,
		"complete": len(tiles) == 0,
	})
}

// CreateFolderHandler stores a new folder.
func (h *SetHandler) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Name   string   `json:"name"`
		SetIDs []string `json:"set_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	folder, err := h.Service.CreateFolder(r.Context(), claims.UserID, body.Name, body.SetIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// ListFoldersHandler returns the caller's folders.
func (h *SetHandler) ListFoldersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	folders, err := h.Service.ListFolders(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// GetFolderHandler returns a folder with its member sets resolved.
func (h *SetHandler) GetFolderHandler(w http.ResponseWriter, r *http.Request) {
	folder, sets, err := h.Service.GetFolderSets(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"folder": folder,
		"sets":   sets,
	})
}

// RenameFolderHandler updates the name of a folder the caller owns.
func (h *SetHandler) RenameFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.RenameFolder(r.Context(), claims.UserID, mux.Vars(r)["id"], body.Name); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Folder renamed"})
}

// AddSetToFolderHandler unions a set into a folder the caller owns.
func (h *SetHandler) AddSetToFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	if err := h.Service.AddSetToFolder(r.Context(), claims.UserID, vars["id"], vars["setId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Set added to folder"})
}

// RemoveSetFromFolderHandler drops a set from a folder the caller owns.
func (h *SetHandler) RemoveSetFromFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	if err := h.Service.RemoveSetFromFolder(r.Context(), claims.UserID, vars["id"], vars["setId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Set removed from folder"})
}

// DeleteFolderHandler removes a folder the caller owns; member sets are
// untouched.
func (h *SetHandler) DeleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteFolder(r.Context(), claims.UserID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Folder deleted"})
}
