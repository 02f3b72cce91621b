package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bilashs/StudyBuddy-Server/internal/mocks"
	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/bilashs/StudyBuddy-Server/internal/services"
	jwtutil "github.com/bilashs/StudyBuddy-Server/pkg/jwt"
	"github.com/bilashs/StudyBuddy-Server/pkg/middleware"
)

// withClaims plants verified claims the way AuthMiddleware does, so handlers
// can be exercised without minting tokens.
func withClaims(userID, username string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &jwtutil.Claims{UserID: userID, Username: username}
			ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setupSessionRouter(sessionRepo *mocks.SessionStoreMock, setRepo *mocks.SetStoreMock) *mux.Router {
	sessionService := services.NewSessionService(sessionRepo)
	setService := services.NewSetService(setRepo, new(mocks.FolderStoreMock))
	handler := NewSessionHandler(sessionService, setService)

	r := mux.NewRouter()
	r.Use(withClaims("alice", "alice01"))
	r.HandleFunc("/sessions", handler.CreateSessionHandler).Methods("POST")
	r.HandleFunc("/sessions", handler.ListSessionsHandler).Methods("GET")
	r.HandleFunc("/sessions/join", handler.JoinSessionHandler).Methods("POST")
	r.HandleFunc("/sessions/{id}", handler.GetSessionHandler).Methods("GET")
	r.HandleFunc("/sessions/{id}/sets", handler.AddSetsHandler).Methods("POST")
	return r
}

func TestCreateSessionHandler(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	router := setupSessionRouter(sessionRepo, new(mocks.SetStoreMock))

	sessionRepo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *models.StudySession) bool {
		return s.Name == "Finals prep" && s.CreatorID == "alice"
	})).Return(&models.StudySession{ID: "s1", Name: "Finals prep", SessionCode: "AB12CD"}, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"name": "Finals prep"})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.StudySession
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "AB12CD", resp.SessionCode)
	sessionRepo.AssertExpectations(t)
}

func TestCreateSessionHandlerBlankName(t *testing.T) {
	router := setupSessionRouter(new(mocks.SessionStoreMock), new(mocks.SetStoreMock))

	body, _ := json.Marshal(map[string]interface{}{"name": "  "})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinSessionHandlerUnknownCode(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	router := setupSessionRouter(sessionRepo, new(mocks.SetStoreMock))

	sessionRepo.On("FindSessionByCode", mock.Anything, "ZZZZZZ").
		Return((*models.StudySession)(nil), nil).Once()

	body, _ := json.Marshal(map[string]string{"code": "zzzzzz"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/join", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionHandlerResolvesSets(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	setRepo := new(mocks.SetStoreMock)
	router := setupSessionRouter(sessionRepo, setRepo)

	sessionRepo.On("GetSessionByID", mock.Anything, "s1").Return(&models.StudySession{
		ID:     "s1",
		SetIDs: map[string]string{"set1": "alice01"},
	}, nil).Once()
	setRepo.On("GetSetsByIDs", mock.Anything, []string{"set1"}).
		Return([]models.StudySet{{ID: "set1", Title: "Biology"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/sessions/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Session models.StudySession `json:"session"`
		Sets    []models.StudySet   `json:"sets"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "s1", resp.Session.ID)
	require.Len(t, resp.Sets, 1)
	assert.Equal(t, "Biology", resp.Sets[0].Title)
}

func TestAddSetsHandlerTagsContributor(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	router := setupSessionRouter(sessionRepo, new(mocks.SetStoreMock))

	sessionRepo.On("MergeSets", mock.Anything, "s1", map[string]string{"set1": "alice01"}).
		Return(nil).Once()

	body, _ := json.Marshal(map[string][]string{"set_ids": {"set1"}})
	req := httptest.NewRequest(http.MethodPost, "/sessions/s1/sets", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	sessionRepo.AssertExpectations(t)
}
