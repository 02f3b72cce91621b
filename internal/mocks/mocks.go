package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
)

type UserStoreMock struct {
	mock.Mock
}

func (m *UserStoreMock) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	var u *models.User
	if val := args.Get(0); val != nil {
		u = val.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStoreMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	var u *models.User
	if val := args.Get(0); val != nil {
		u = val.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStoreMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	var u *models.User
	if val := args.Get(0); val != nil {
		u = val.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStoreMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	var u *models.User
	if val := args.Get(0); val != nil {
		u = val.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStoreMock) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	var u *models.User
	if val := args.Get(0); val != nil {
		u = val.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStoreMock) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	var u *models.User
	if val := args.Get(0); val != nil {
		u = val.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStoreMock) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *UserStoreMock) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserStoreMock) AddFriend(ctx context.Context, userID, friendID string) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *UserStoreMock) RemoveFriend(ctx context.Context, userID, friendID string) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *UserStoreMock) GetFriendIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	var ids []string
	if val := args.Get(0); val != nil {
		ids = val.([]string)
	}
	return ids, args.Error(1)
}

func (m *UserStoreMock) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserStoreMock) SearchUsersByUsernamePrefix(ctx context.Context, prefix string, excluding []string) ([]models.User, error) {
	args := m.Called(ctx, prefix, excluding)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

type FriendStoreMock struct {
	mock.Mock
}

func (m *FriendStoreMock) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	args := m.Called(ctx, req)
	var r *models.FriendRequest
	if val := args.Get(0); val != nil {
		r = val.(*models.FriendRequest)
	}
	return r, args.Error(1)
}

func (m *FriendStoreMock) FindRequests(ctx context.Context, from, to string) ([]models.FriendRequest, error) {
	args := m.Called(ctx, from, to)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *FriendStoreMock) DeleteRequests(ctx context.Context, from, to string) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FriendStoreMock) GetRequestsByReceiver(ctx context.Context, receiverID string) ([]models.FriendRequest, error) {
	args := m.Called(ctx, receiverID)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *FriendStoreMock) CreateNotice(ctx context.Context, notice *models.AcceptedNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *FriendStoreMock) GetNoticesForUser(ctx context.Context, userID string) ([]models.AcceptedNotice, error) {
	args := m.Called(ctx, userID)
	var notices []models.AcceptedNotice
	if val := args.Get(0); val != nil {
		notices = val.([]models.AcceptedNotice)
	}
	return notices, args.Error(1)
}

func (m *FriendStoreMock) DeleteNotices(ctx context.Context, from, to string) error {
	args := m.Called(ctx, from, to)
	return args.Error(0)
}

func (m *FriendStoreMock) WatchIncomingRequests(ctx context.Context, userID string) (<-chan []models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var ch <-chan []models.FriendRequest
	if val := args.Get(0); val != nil {
		ch = val.(<-chan []models.FriendRequest)
	}
	return ch, args.Error(1)
}

func (m *FriendStoreMock) WatchNotices(ctx context.Context, userID string) (<-chan []models.AcceptedNotice, error) {
	args := m.Called(ctx, userID)
	var ch <-chan []models.AcceptedNotice
	if val := args.Get(0); val != nil {
		ch = val.(<-chan []models.AcceptedNotice)
	}
	return ch, args.Error(1)
}

type ChatStoreMock struct {
	mock.Mock
}

func (m *ChatStoreMock) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	args := m.Called(ctx, msg)
	var out *models.Message
	if val := args.Get(0); val != nil {
		out = val.(*models.Message)
	}
	return out, args.Error(1)
}

func (m *ChatStoreMock) GetMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *ChatStoreMock) GetLastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	args := m.Called(ctx, chatID)
	var msg *models.Message
	if val := args.Get(0); val != nil {
		msg = val.(*models.Message)
	}
	return msg, args.Error(1)
}

func (m *ChatStoreMock) MarkSeen(ctx context.Context, chatID, viewerID string) (int64, error) {
	args := m.Called(ctx, chatID, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ChatStoreMock) CountUnseen(ctx context.Context, chatID, viewerID string) (int64, error) {
	args := m.Called(ctx, chatID, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ChatStoreMock) UpsertConversation(ctx context.Context, convo *models.Conversation) error {
	args := m.Called(ctx, convo)
	return args.Error(0)
}

func (m *ChatStoreMock) GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var convos []models.Conversation
	if val := args.Get(0); val != nil {
		convos = val.([]models.Conversation)
	}
	return convos, args.Error(1)
}

func (m *ChatStoreMock) WatchMessages(ctx context.Context, chatID string) (<-chan []models.Message, error) {
	args := m.Called(ctx, chatID)
	var ch <-chan []models.Message
	if val := args.Get(0); val != nil {
		ch = val.(<-chan []models.Message)
	}
	return ch, args.Error(1)
}

func (m *ChatStoreMock) WatchConversations(ctx context.Context, userID string) (<-chan []models.Conversation, error) {
	args := m.Called(ctx, userID)
	var ch <-chan []models.Conversation
	if val := args.Get(0); val != nil {
		ch = val.(<-chan []models.Conversation)
	}
	return ch, args.Error(1)
}

type SessionStoreMock struct {
	mock.Mock
}

func (m *SessionStoreMock) CreateSession(ctx context.Context, session *models.StudySession) (*models.StudySession, error) {
	args := m.Called(ctx, session)
	var s *models.StudySession
	if val := args.Get(0); val != nil {
		s = val.(*models.StudySession)
	}
	return s, args.Error(1)
}

func (m *SessionStoreMock) GetSessionByID(ctx context.Context, id string) (*models.StudySession, error) {
	args := m.Called(ctx, id)
	var s *models.StudySession
	if val := args.Get(0); val != nil {
		s = val.(*models.StudySession)
	}
	return s, args.Error(1)
}

func (m *SessionStoreMock) FindSessionByCode(ctx context.Context, code string) (*models.StudySession, error) {
	args := m.Called(ctx, code)
	var s *models.StudySession
	if val := args.Get(0); val != nil {
		s = val.(*models.StudySession)
	}
	return s, args.Error(1)
}

func (m *SessionStoreMock) AddMember(ctx context.Context, sessionID, userID string) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func (m *SessionStoreMock) MergeSets(ctx context.Context, sessionID string, entries map[string]string) error {
	args := m.Called(ctx, sessionID, entries)
	return args.Error(0)
}

func (m *SessionStoreMock) GetSessionsByMember(ctx context.Context, userID string) ([]models.StudySession, error) {
	args := m.Called(ctx, userID)
	var sessions []models.StudySession
	if val := args.Get(0); val != nil {
		sessions = val.([]models.StudySession)
	}
	return sessions, args.Error(1)
}

func (m *SessionStoreMock) WatchMemberSessions(ctx context.Context, userID string) (<-chan []models.StudySession, error) {
	args := m.Called(ctx, userID)
	var ch <-chan []models.StudySession
	if val := args.Get(0); val != nil {
		ch = val.(<-chan []models.StudySession)
	}
	return ch, args.Error(1)
}

type SetStoreMock struct {
	mock.Mock
}

func (m *SetStoreMock) CreateSet(ctx context.Context, set *models.StudySet) (*models.StudySet, error) {
	args := m.Called(ctx, set)
	var s *models.StudySet
	if val := args.Get(0); val != nil {
		s = val.(*models.StudySet)
	}
	return s, args.Error(1)
}

func (m *SetStoreMock) GetSetByID(ctx context.Context, id string) (*models.StudySet, error) {
	args := m.Called(ctx, id)
	var s *models.StudySet
	if val := args.Get(0); val != nil {
		s = val.(*models.StudySet)
	}
	return s, args.Error(1)
}

func (m *SetStoreMock) GetSetsByOwner(ctx context.Context, ownerID string) ([]models.StudySet, error) {
	args := m.Called(ctx, ownerID)
	var sets []models.StudySet
	if val := args.Get(0); val != nil {
		sets = val.([]models.StudySet)
	}
	return sets, args.Error(1)
}

func (m *SetStoreMock) GetSetsByIDs(ctx context.Context, ids []string) ([]models.StudySet, error) {
	args := m.Called(ctx, ids)
	var sets []models.StudySet
	if val := args.Get(0); val != nil {
		sets = val.([]models.StudySet)
	}
	return sets, args.Error(1)
}

func (m *SetStoreMock) UpdateSet(ctx context.Context, id string, title string, terms []models.FlashcardTerm) error {
	args := m.Called(ctx, id, title, terms)
	return args.Error(0)
}

func (m *SetStoreMock) DeleteSet(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type FolderStoreMock struct {
	mock.Mock
}

func (m *FolderStoreMock) CreateFolder(ctx context.Context, folder *models.StudyFolder) (*models.StudyFolder, error) {
	args := m.Called(ctx, folder)
	var f *models.StudyFolder
	if val := args.Get(0); val != nil {
		f = val.(*models.StudyFolder)
	}
	return f, args.Error(1)
}

func (m *FolderStoreMock) GetFolderByID(ctx context.Context, id string) (*models.StudyFolder, error) {
	args := m.Called(ctx, id)
	var f *models.StudyFolder
	if val := args.Get(0); val != nil {
		f = val.(*models.StudyFolder)
	}
	return f, args.Error(1)
}

func (m *FolderStoreMock) GetFoldersByOwner(ctx context.Context, ownerID string) ([]models.StudyFolder, error) {
	args := m.Called(ctx, ownerID)
	var folders []models.StudyFolder
	if val := args.Get(0); val != nil {
		folders = val.([]models.StudyFolder)
	}
	return folders, args.Error(1)
}

func (m *FolderStoreMock) RenameFolder(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *FolderStoreMock) AddSetToFolder(ctx context.Context, folderID, setID string) error {
	args := m.Called(ctx, folderID, setID)
	return args.Error(0)
}

func (m *FolderStoreMock) RemoveSetFromFolder(ctx context.Context, folderID, setID string) error {
	args := m.Called(ctx, folderID, setID)
	return args.Error(0)
}

func (m *FolderStoreMock) DeleteFolder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type PreviewCacheMock struct {
	mock.Mock
}

func (m *PreviewCacheMock) Save(userID string, previews []models.ChatPreview, at time.Time) error {
	args := m.Called(userID, previews, at)
	return args.Error(0)
}

func (m *PreviewCacheMock) Load(userID string) ([]models.ChatPreview, bool) {
	args := m.Called(userID)
	var previews []models.ChatPreview
	if val := args.Get(0); val != nil {
		previews = val.([]models.ChatPreview)
	}
	return previews, args.Bool(1)
}
