package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// separatorGap is the silence between messages after which the chat UI shows
// a date separator.
const separatorGap = 300 * time.Second

// ChatService owns conversation identity, message ordering, seen tracking and
// preview aggregation.
type ChatService struct {
	chatRepo ChatStore
	userRepo UserStore
	cache    PreviewCache
}

// NewChatService creates a new ChatService. cache may be nil; previews then
// simply have no warm-start snapshot.
func NewChatService(chatRepo ChatStore, userRepo UserStore, cache PreviewCache) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		cache:    cache,
	}
}

// ConversationID derives the shared thread id for a pair of users. Both
// participants compute the same id without a lookup.
func ConversationID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// SendMessage validates and writes a message, then refreshes the parent
// conversation's denormalized preview. The two writes are not transactional:
// if the preview upsert fails the message still stands and the preview is
// repaired on the next read or by the maintenance job.
func (s *ChatService) SendMessage(ctx context.Context, sender, receiver, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrValidation)
	}

	chatID := ConversationID(sender, receiver)
	msg, err := s.chatRepo.InsertMessage(ctx, &models.Message{
		ChatID:     chatID,
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       text,
	})
	if err != nil {
		return nil, err
	}

	if err := s.chatRepo.UpsertConversation(ctx, &models.Conversation{
		ID:           chatID,
		Participants: []string{sender, receiver},
		LastMessage:  text,
		LastSender:   sender,
		LastUpdated:  msg.Timestamp,
	}); err != nil {
		logrus.WithError(err).WithField("chatID", chatID).
			Warn("Message stored but preview update failed; preview is stale until repaired")
	}

	return msg, nil
}

// MarkSeen flips the seen flag on every unseen message addressed to the
// viewer in one conversation. The flag never reverts.
func (s *ChatService) MarkSeen(ctx context.Context, chatID, viewer string) error {
	_, err := s.chatRepo.MarkSeen(ctx, chatID, viewer)
	return err
}

// GetMessages returns the conversation's messages ascending by timestamp.
func (s *ChatService) GetMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	return s.chatRepo.GetMessages(ctx, chatID)
}

// SubscribeMessages streams the full ascending message list on every change.
// Callers must cancel the previous subscription's context before subscribing
// to a different conversation.
func (s *ChatService) SubscribeMessages(ctx context.Context, chatID string) (<-chan []models.Message, error) {
	return s.chatRepo.WatchMessages(ctx, chatID)
}

// ListConversationPreviews builds the viewer's conversation list: other
// participant's profile, preview text, timestamp and unread flag, ordered by
// last activity descending. Per-conversation lookups fan out concurrently and
// all branches are joined; a failed branch fails the whole read rather than
// silently dropping a row.
func (s *ChatService) ListConversationPreviews(ctx context.Context, self string) ([]models.ChatPreview, error) {
	convos, err := s.chatRepo.GetConversationsForUser(ctx, self)
	if err != nil {
		return nil, err
	}

	previews := make([]models.ChatPreview, len(convos))
	keep := make([]bool, len(convos))

	g, gctx := errgroup.WithContext(ctx)
	for i := range convos {
		i := i
		convo := convos[i]
		g.Go(func() error {
			preview, ok, err := s.buildPreview(gctx, self, convo)
			if err != nil {
				return err
			}
			previews[i] = preview
			keep[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]models.ChatPreview, 0, len(convos))
	for i := range previews {
		if keep[i] {
			result = append(result, previews[i])
		}
	}
	if s.cache != nil {
		if err := s.cache.Save(self, result, time.Now()); err != nil {
			logrus.WithError(err).Warn("Failed to cache chat previews")
		}
	}
	return result, nil
}

// buildPreview assembles one preview row. Conversations whose other
// participant no longer resolves are dropped (ok=false). When the
// denormalized preview fields are missing or older than the newest message,
// they are recomputed from the message list, the repair path for the
// non-transactional preview write.
func (s *ChatService) buildPreview(ctx context.Context, self string, convo models.Conversation) (models.ChatPreview, bool, error) {
	var otherID string
	for _, p := range convo.Participants {
		if p != self {
			otherID = p
			break
		}
	}
	if otherID == "" {
		return models.ChatPreview{}, false, nil
	}

	other, err := s.userRepo.GetUserByID(ctx, otherID)
	if err != nil {
		return models.ChatPreview{}, false, err
	}
	if other == nil {
		logrus.WithField("userID", otherID).Warn("Dropping conversation with missing participant")
		return models.ChatPreview{}, false, nil
	}

	lastText := convo.LastMessage
	lastSender := convo.LastSender
	timestamp := convo.LastUpdated

	last, err := s.chatRepo.GetLastMessage(ctx, convo.ID)
	if err != nil {
		return models.ChatPreview{}, false, err
	}
	if last != nil && (lastText == "" || last.Timestamp.After(timestamp)) {
		// Stale or missing denormalized preview; repair from the source of truth.
		lastText = last.Text
		lastSender = last.SenderID
		timestamp = last.Timestamp
	}

	unseen, err := s.chatRepo.CountUnseen(ctx, convo.ID, self)
	if err != nil {
		return models.ChatPreview{}, false, err
	}

	display := lastText
	if lastSender != self && lastSender != "" {
		display = other.Username + ": " + lastText
	}

	return models.ChatPreview{
		ChatID:      convo.ID,
		User:        other.Public(),
		LastMessage: display,
		Timestamp:   timestamp,
		HasUnread:   lastSender != self && unseen > 0,
	}, true, nil
}

// CachedPreviews returns the last saved preview snapshot for instant UI
// population, or nil when no usable cache exists.
func (s *ChatService) CachedPreviews(self string) []models.ChatPreview {
	if s.cache == nil {
		return nil
	}
	previews, ok := s.cache.Load(self)
	if !ok {
		return nil
	}
	return previews
}

// SubscribePreviews streams the viewer's preview list on every conversation
// change. Each delivery rebuilds the full list; failures keep the last-known
// state rather than clearing it.
func (s *ChatService) SubscribePreviews(ctx context.Context, self string) (<-chan []models.ChatPreview, error) {
	convoChanges, err := s.chatRepo.WatchConversations(ctx, self)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.ChatPreview, 1)
	go func() {
		defer close(out)
		for range convoChanges {
			previews, err := s.ListConversationPreviews(ctx, self)
			if err != nil {
				if ctx.Err() == nil {
					logrus.WithError(err).Warn("Failed to rebuild chat previews; keeping last state")
				}
				continue
			}
			select {
			case out <- previews:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// GroupMessagesWithSeparators produces the render-ready message sequence: a
// separator before the first message and before any message whose gap since
// its predecessor exceeds five minutes.
func GroupMessagesWithSeparators(messages []models.Message) []models.ChatEntry {
	entries := make([]models.ChatEntry, 0, len(messages))
	for i := range messages {
		msg := messages[i]
		if i == 0 || msg.Timestamp.Sub(messages[i-1].Timestamp) > separatorGap {
			entries = append(entries, models.ChatEntry{Separator: true, At: msg.Timestamp})
		}
		entries = append(entries, models.ChatEntry{Message: &msg})
	}
	return entries
}
