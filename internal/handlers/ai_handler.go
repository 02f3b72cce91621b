package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bilashs/StudyBuddy-Server/internal/ai"
	"github.com/bilashs/StudyBuddy-Server/pkg/logger"
)

// AIHandler exposes the flashcard generator. Generator may be nil when no
// API key is configured.
type AIHandler struct {
	Generator *ai.Generator
}

func NewAIHandler(generator *ai.Generator) *AIHandler {
	return &AIHandler{Generator: generator}
}

// GenerateSetHandler builds a suggested flashcard set from a topic prompt.
func (h *AIHandler) GenerateSetHandler(w http.ResponseWriter, r *http.Request) {
	if h.Generator == nil {
		http.Error(w, "Flashcard generation is not available", http.StatusNotFound)
		return
	}

	var body struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	body.Topic = strings.TrimSpace(body.Topic)
	if body.Topic == "" {
		http.Error(w, "Topic is required", http.StatusBadRequest)
		return
	}

	set, err := h.Generator.GenerateSet(r.Context(), body.Topic)
	if err != nil {
		logger.Log.Errorf("Failed to generate flashcards: %v", err)
		http.Error(w, "Failed to generate flashcards", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, set)
}
