package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bilashs/StudyBuddy-Server/internal/mocks"
	"github.com/bilashs/StudyBuddy-Server/internal/models"
)

func TestConversationIDIsOrderIndependent(t *testing.T) {
	assert.Equal(t, ConversationID("alice", "bob"), ConversationID("bob", "alice"))
	assert.Equal(t, "alice_bob", ConversationID("bob", "alice"))
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	svc := NewChatService(new(mocks.ChatStoreMock), new(mocks.UserStoreMock), nil)

	_, err := svc.SendMessage(context.Background(), "alice", "bob", "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendMessageUpdatesConversationPreview(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	svc := NewChatService(chatRepo, new(mocks.UserStoreMock), nil)

	sent := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	chatRepo.On("InsertMessage", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.ChatID == "alice_bob" && m.SenderID == "alice" && m.ReceiverID == "bob"
	})).Return(&models.Message{ChatID: "alice_bob", SenderID: "alice", Text: "hey", Timestamp: sent}, nil).Once()
	chatRepo.On("UpsertConversation", mock.Anything, mock.MatchedBy(func(c *models.Conversation) bool {
		return c.ID == "alice_bob" && c.LastMessage == "hey" && c.LastSender == "alice" && c.LastUpdated.Equal(sent)
	})).Return(nil).Once()

	msg, err := svc.SendMessage(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)
	assert.Equal(t, "hey", msg.Text)
	chatRepo.AssertExpectations(t)
}

func TestSendMessageSurvivesPreviewFailure(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	svc := NewChatService(chatRepo, new(mocks.UserStoreMock), nil)

	chatRepo.On("InsertMessage", mock.Anything, mock.Anything).
		Return(&models.Message{ChatID: "alice_bob", Text: "hey"}, nil).Once()
	chatRepo.On("UpsertConversation", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	msg, err := svc.SendMessage(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)
	assert.NotNil(t, msg)
}

func TestSendMessageStartsUnseen(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	svc := NewChatService(chatRepo, new(mocks.UserStoreMock), nil)

	chatRepo.On("InsertMessage", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return !m.Seen
	})).Return(&models.Message{ChatID: "alice_bob", Text: "hey", Seen: false}, nil).Once()
	chatRepo.On("UpsertConversation", mock.Anything, mock.Anything).Return(nil).Once()

	msg, err := svc.SendMessage(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)
	assert.False(t, msg.Seen)
	chatRepo.AssertExpectations(t)
}

func TestMarkSeenScopedToViewer(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	svc := NewChatService(chatRepo, new(mocks.UserStoreMock), nil)

	chatRepo.On("MarkSeen", mock.Anything, "alice_bob", "alice").Return(int64(2), nil).Once()

	require.NoError(t, svc.MarkSeen(context.Background(), "alice_bob", "alice"))
	chatRepo.AssertExpectations(t)
}

func TestMarkSeenRepeatIsNoOp(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	svc := NewChatService(chatRepo, new(mocks.UserStoreMock), nil)

	// Once everything is seen the batch update matches nothing; the flag
	// never flips back.
	chatRepo.On("MarkSeen", mock.Anything, "alice_bob", "alice").Return(int64(0), nil).Once()

	require.NoError(t, svc.MarkSeen(context.Background(), "alice_bob", "alice"))
}

func TestListConversationPreviewsPrefixAndUnread(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	userRepo := new(mocks.UserStoreMock)
	svc := NewChatService(chatRepo, userRepo, nil)

	now := time.Now()
	chatRepo.On("GetConversationsForUser", mock.Anything, "alice").Return([]models.Conversation{
		{
			ID:           "alice_bob",
			Participants: []string{"alice", "bob"},
			LastMessage:  "see you then",
			LastSender:   "bob",
			LastUpdated:  now,
		},
		{
			ID:           "alice_carol",
			Participants: []string{"alice", "carol"},
			LastMessage:  "thanks!",
			LastSender:   "alice",
			LastUpdated:  now.Add(-time.Hour),
		},
	}, nil).Once()
	userRepo.On("GetUserByID", mock.Anything, "bob").Return(&models.User{ID: "bob", Username: "bob"}, nil).Once()
	userRepo.On("GetUserByID", mock.Anything, "carol").Return(&models.User{ID: "carol", Username: "carol"}, nil).Once()
	chatRepo.On("GetLastMessage", mock.Anything, "alice_bob").
		Return(&models.Message{Text: "see you then", SenderID: "bob", Timestamp: now}, nil).Once()
	chatRepo.On("GetLastMessage", mock.Anything, "alice_carol").
		Return(&models.Message{Text: "thanks!", SenderID: "alice", Timestamp: now.Add(-time.Hour)}, nil).Once()
	chatRepo.On("CountUnseen", mock.Anything, "alice_bob", "alice").Return(int64(2), nil).Once()
	chatRepo.On("CountUnseen", mock.Anything, "alice_carol", "alice").Return(int64(0), nil).Once()

	previews, err := svc.ListConversationPreviews(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, previews, 2)

	// Other user sent last: username prefix and unread.
	assert.Equal(t, "bob: see you then", previews[0].LastMessage)
	assert.True(t, previews[0].HasUnread)

	// Self sent last: raw text, never unread.
	assert.Equal(t, "thanks!", previews[1].LastMessage)
	assert.False(t, previews[1].HasUnread)
}

func TestListConversationPreviewsRepairsStaleSummary(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	userRepo := new(mocks.UserStoreMock)
	svc := NewChatService(chatRepo, userRepo, nil)

	stale := time.Now().Add(-time.Hour)
	fresh := time.Now()
	chatRepo.On("GetConversationsForUser", mock.Anything, "alice").Return([]models.Conversation{{
		ID:           "alice_bob",
		Participants: []string{"alice", "bob"},
		LastMessage:  "old text",
		LastSender:   "alice",
		LastUpdated:  stale,
	}}, nil).Once()
	userRepo.On("GetUserByID", mock.Anything, "bob").Return(&models.User{ID: "bob", Username: "bob"}, nil).Once()
	chatRepo.On("GetLastMessage", mock.Anything, "alice_bob").
		Return(&models.Message{Text: "newer text", SenderID: "bob", Timestamp: fresh}, nil).Once()
	chatRepo.On("CountUnseen", mock.Anything, "alice_bob", "alice").Return(int64(1), nil).Once()

	previews, err := svc.ListConversationPreviews(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, previews, 1)
	assert.Equal(t, "bob: newer text", previews[0].LastMessage)
	assert.True(t, previews[0].Timestamp.Equal(fresh))
	assert.True(t, previews[0].HasUnread)
}

func TestListConversationPreviewsDropsMissingParticipant(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	userRepo := new(mocks.UserStoreMock)
	svc := NewChatService(chatRepo, userRepo, nil)

	chatRepo.On("GetConversationsForUser", mock.Anything, "alice").Return([]models.Conversation{{
		ID:           "alice_ghost",
		Participants: []string{"alice", "ghost"},
		LastMessage:  "hello?",
		LastSender:   "ghost",
	}}, nil).Once()
	userRepo.On("GetUserByID", mock.Anything, "ghost").Return((*models.User)(nil), nil).Once()

	previews, err := svc.ListConversationPreviews(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, previews)
}

func TestListConversationPreviewsSavesSnapshot(t *testing.T) {
	chatRepo := new(mocks.ChatStoreMock)
	cache := new(mocks.PreviewCacheMock)
	svc := NewChatService(chatRepo, new(mocks.UserStoreMock), cache)

	chatRepo.On("GetConversationsForUser", mock.Anything, "alice").
		Return([]models.Conversation{}, nil).Once()
	cache.On("Save", "alice", []models.ChatPreview{}, mock.Anything).Return(nil).Once()

	_, err := svc.ListConversationPreviews(context.Background(), "alice")
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestCachedPreviews(t *testing.T) {
	cache := new(mocks.PreviewCacheMock)
	svc := NewChatService(new(mocks.ChatStoreMock), new(mocks.UserStoreMock), cache)

	saved := []models.ChatPreview{{ChatID: "alice_bob", LastMessage: "hi"}}
	cache.On("Load", "alice").Return(saved, true).Once()
	cache.On("Load", "bob").Return(nil, false).Once()

	assert.Equal(t, saved, svc.CachedPreviews("alice"))
	assert.Nil(t, svc.CachedPreviews("bob"))
}

func TestGroupMessagesWithSeparators(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(secs int) time.Time { return base.Add(time.Duration(secs) * time.Second) }

	messages := []models.Message{
		{Text: "a", Timestamp: at(0)},
		{Text: "b", Timestamp: at(100)},
		{Text: "c", Timestamp: at(500)},
		{Text: "d", Timestamp: at(520)},
	}

	entries := GroupMessagesWithSeparators(messages)

	// Separator before the first message and before the 400s gap; nothing
	// between b and c's neighbors at 100s and 20s.
	require.Len(t, entries, 6)
	assert.True(t, entries[0].Separator)
	assert.Equal(t, "a", entries[1].Message.Text)
	assert.Equal(t, "b", entries[2].Message.Text)
	assert.True(t, entries[3].Separator)
	assert.True(t, entries[3].At.Equal(at(500)))
	assert.Equal(t, "c", entries[4].Message.Text)
	assert.Equal(t, "d", entries[5].Message.Text)
}

func TestGroupMessagesWithSeparatorsExactGapHasNoSeparator(t *testing.T) {
	base := time.Now()
	messages := []models.Message{
		{Text: "a", Timestamp: base},
		{Text: "b", Timestamp: base.Add(separatorGap)},
	}

	entries := GroupMessagesWithSeparators(messages)
	require.Len(t, entries, 3)
	assert.False(t, entries[2].Separator)
}

func TestGroupMessagesWithSeparatorsEmpty(t *testing.T) {
	assert.Empty(t, GroupMessagesWithSeparators(nil))
}
