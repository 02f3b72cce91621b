package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bilashs/StudyBuddy-Server/internal/mocks"
	"github.com/bilashs/StudyBuddy-Server/internal/models"
)

var sessionCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestGenerateSessionCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateSessionCode()
		require.NoError(t, err)
		assert.Regexp(t, sessionCodePattern, code)
	}
}

func TestCreateSessionSetsCreatorAsSoleMember(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	sessionRepo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *models.StudySession) bool {
		return s.Name == "Finals prep" &&
			s.CreatorID == "alice" &&
			s.CreatorUsername == "alice01" &&
			sessionCodePattern.MatchString(s.SessionCode) &&
			len(s.MemberIDs) == 1 && s.MemberIDs[0] == "alice" &&
			s.SetIDs != nil && len(s.SetIDs) == 0 &&
			s.ID != ""
	})).Return(&models.StudySession{ID: "s1", Name: "Finals prep"}, nil).Once()

	created, err := svc.CreateSession(context.Background(), "Finals prep", "alice", "alice01", nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", created.ID)
	sessionRepo.AssertExpectations(t)
}

func TestCreateSessionRejectsBlankName(t *testing.T) {
	svc := NewSessionService(new(mocks.SessionStoreMock))

	_, err := svc.CreateSession(context.Background(), "  ", "alice", "alice01", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJoinSessionNormalizesCode(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	session := &models.StudySession{ID: "s1", SessionCode: "AB12CD"}
	sessionRepo.On("FindSessionByCode", mock.Anything, "AB12CD").Return(session, nil).Once()
	sessionRepo.On("AddMember", mock.Anything, "s1", "bob").Return(nil).Once()

	joined, err := svc.JoinSession(context.Background(), " ab12cd ", "bob")
	require.NoError(t, err)
	assert.Equal(t, "s1", joined.ID)
	sessionRepo.AssertExpectations(t)
}

func TestJoinSessionUnknownCode(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	sessionRepo.On("FindSessionByCode", mock.Anything, "ZZZZZZ").
		Return((*models.StudySession)(nil), nil).Once()

	_, err := svc.JoinSession(context.Background(), "ZZZZZZ", "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	sessionRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinSessionEmptyCode(t *testing.T) {
	svc := NewSessionService(new(mocks.SessionStoreMock))

	_, err := svc.JoinSession(context.Background(), "   ", "bob")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddSetsToSessionEmptyIsNoOp(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	require.NoError(t, svc.AddSetsToSession(context.Background(), "s1", nil))
	sessionRepo.AssertNotCalled(t, "MergeSets", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddSetsToSessionMerges(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	entries := map[string]string{"set1": "alice01"}
	sessionRepo.On("MergeSets", mock.Anything, "s1", entries).Return(nil).Once()

	require.NoError(t, svc.AddSetsToSession(context.Background(), "s1", entries))
	sessionRepo.AssertExpectations(t)
}

func TestAddSetsToSessionRejectsPathCharacters(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	for _, id := range []string{"bad.id", "$bad", ""} {
		err := svc.AddSetsToSession(context.Background(), "s1", map[string]string{id: "alice01"})
		assert.ErrorIs(t, err, ErrValidation, "id %q", id)
	}
	sessionRepo.AssertNotCalled(t, "MergeSets", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSessionRejectsBadInitialSetID(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	_, err := svc.CreateSession(context.Background(), "Finals", "alice", "alice01", map[string]string{"a.b": "alice01"})
	assert.ErrorIs(t, err, ErrValidation)
	sessionRepo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestGetSessionMissing(t *testing.T) {
	sessionRepo := new(mocks.SessionStoreMock)
	svc := NewSessionService(sessionRepo)

	sessionRepo.On("GetSessionByID", mock.Anything, "nope").
		Return((*models.StudySession)(nil), nil).Once()

	_, err := svc.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
