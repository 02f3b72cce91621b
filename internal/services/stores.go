package services

import (
	"context"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
)

// The store interfaces below are what the engines need from the document
// database. The mongo repositories satisfy them; tests substitute mocks.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteUser(ctx context.Context, id string) error
	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	GetFriendIDs(ctx context.Context, userID string) ([]string, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	SearchUsersByUsernamePrefix(ctx context.Context, prefix string, excluding []string) ([]models.User, error)
}

type FriendStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	FindRequests(ctx context.Context, from, to string) ([]models.FriendRequest, error)
	DeleteRequests(ctx context.Context, from, to string) (int64, error)
	GetRequestsByReceiver(ctx context.Context, receiverID string) ([]models.FriendRequest, error)
	CreateNotice(ctx context.Context, notice *models.AcceptedNotice) error
	GetNoticesForUser(ctx context.Context, userID string) ([]models.AcceptedNotice, error)
	DeleteNotices(ctx context.Context, from, to string) error
	WatchIncomingRequests(ctx context.Context, userID string) (<-chan []models.FriendRequest, error)
	WatchNotices(ctx context.Context, userID string) (<-chan []models.AcceptedNotice, error)
}

type ChatStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetMessages(ctx context.Context, chatID string) ([]models.Message, error)
	GetLastMessage(ctx context.Context, chatID string) (*models.Message, error)
	MarkSeen(ctx context.Context, chatID, viewerID string) (int64, error)
	CountUnseen(ctx context.Context, chatID, viewerID string) (int64, error)
	UpsertConversation(ctx context.Context, convo *models.Conversation) error
	GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	WatchMessages(ctx context.Context, chatID string) (<-chan []models.Message, error)
	WatchConversations(ctx context.Context, userID string) (<-chan []models.Conversation, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.StudySession) (*models.StudySession, error)
	GetSessionByID(ctx context.Context, id string) (*models.StudySession, error)
	FindSessionByCode(ctx context.Context, code string) (*models.StudySession, error)
	AddMember(ctx context.Context, sessionID, userID string) error
	MergeSets(ctx context.Context, sessionID string, entries map[string]string) error
	GetSessionsByMember(ctx context.Context, userID string) ([]models.StudySession, error)
	WatchMemberSessions(ctx context.Context, userID string) (<-chan []models.StudySession, error)
}

type SetStore interface {
	CreateSet(ctx context.Context, set *models.StudySet) (*models.StudySet, error)
	GetSetByID(ctx context.Context, id string) (*models.StudySet, error)
	GetSetsByOwner(ctx context.Context, ownerID string) ([]models.StudySet, error)
	GetSetsByIDs(ctx context.Context, ids []string) ([]models.StudySet, error)
	UpdateSet(ctx context.Context, id string, title string, terms []models.FlashcardTerm) error
	DeleteSet(ctx context.Context, id string) error
}

type FolderStore interface {
	CreateFolder(ctx context.Context, folder *models.StudyFolder) (*models.StudyFolder, error)
	GetFolderByID(ctx context.Context, id string) (*models.StudyFolder, error)
	GetFoldersByOwner(ctx context.Context, ownerID string) ([]models.StudyFolder, error)
	RenameFolder(ctx context.Context, id, name string) error
	AddSetToFolder(ctx context.Context, folderID, setID string) error
	RemoveSetFromFolder(ctx context.Context, folderID, setID string) error
	DeleteFolder(ctx context.Context, id string) error
}

// PreviewCache is the best-effort local snapshot of chat previews. Never
// authoritative; always superseded by the first live update.
type PreviewCache interface {
	Save(userID string, previews []models.ChatPreview, at time.Time) error
	Load(userID string) ([]models.ChatPreview, bool)
}
