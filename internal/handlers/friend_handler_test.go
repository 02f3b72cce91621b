package handlers

import (
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
)

func setupFriendRouter(friendRepo *mocks.FriendStoreMock, userRepo *mocks.UserStoreMock) *mux.Router {
	handler := NewFriendHandler(services.NewRelationshipService(friendRepo, userRepo))

	r := mux.NewRouter()
	r.Use(withClaims("alice", "alice01"))
	r.HandleFunc("/friends", handler.GetFriendsHandler).Methods("GET")
	r.HandleFunc("/friends/search", handler.SearchUsersHandler).Methods("GET")
	r.HandleFunc("/friends/requests", handler.GetPendingRequestsHandler).Methods("GET")
	r.HandleFunc("/friends/{id}/request", handler.SendFriendRequestHandler).Methods("POST")
	r.HandleFunc("/friends/{id}/accept", handler.AcceptFriendRequestHandler).Methods("POST")
	r.HandleFunc("/friends/{id}", handler.RemoveFriendHandler).Methods("DELETE")
	return r
}

func TestSendFriendRequestHandlerSelfRejected(t *testing.T) {
	router := setupFriendRouter(new(mocks.FriendStoreMock), new(mocks.UserStoreMock))

	req := httptest.NewRequest(http.MethodPost, "/friends/alice/request", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptFriendRequestHandler(t *testing.T) {
	friendRepo := new(mocks.FriendStoreMock)
	userRepo := new(mocks.UserStoreMock)
	router := setupFriendRouter(friendRepo, userRepo)

	userRepo.On("AddFriend", mock.Anything, "alice", "bob").Return(nil).Once()
	userRepo.On("AddFriend", mock.Anything, "bob", "alice").Return(nil).Once()
	friendRepo.On("DeleteRequests", mock.Anything, "bob", "alice").Return(int64(1), nil).Once()
	friendRepo.On("CreateNotice", mock.Anything, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/bob/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	friendRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestGetFriendsHandler(t *testing.T) {
	friendRepo := new(mocks.FriendStoreMock)
	userRepo := new(mocks.UserStoreMock)
	router := setupFriendRouter(friendRepo, userRepo)

	userRepo.On("GetFriendIDs", mock.Anything, "alice").Return([]string{"bob"}, nil).Once()
	userRepo.On("GetUsersByIDs", mock.Anything, []string{"bob"}).
		Return([]models.User{{ID: "bob", Username: "bob", FirstName: "Bob", LastName: "Jones"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []models.PublicUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Bob Jones", resp[0].DisplayName)
}

func TestRemoveFriendHandlerOnlyTouchesCallerSide(t *testing.T) {
	friendRepo := new(mocks.FriendStoreMock)
	userRepo := new(mocks.UserStoreMock)
	router := setupFriendRouter(friendRepo, userRepo)

	userRepo.On("RemoveFriend", mock.Anything, "alice", "bob").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/friends/bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertNumberOfCalls(t, "RemoveFriend", 1)
}

func TestSearchUsersHandlerEmptyQuery(t *testing.T) {
	router := setupFriendRouter(new(mocks.FriendStoreMock), new(mocks.UserStoreMock))

	req := httptest.NewRequest(http.MethodGet, "/friends/search?q=", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
