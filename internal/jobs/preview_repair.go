package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/repository"
	"github.com/sirupsen/logrus"
)

const noticeRetention = 30 * 24 * time.Hour

// Maintenance repairs conversation summaries that drifted from their
// message history and prunes old acceptance notices. Summaries drift when a
// message insert succeeds but the follow-up conversation upsert fails.
type Maintenance struct {
	ChatRepo   *repository.ChatRepository
	FriendRepo *repository.FriendRepository
}

// NewMaintenance creates a new instance of Maintenance
func NewMaintenance(chatRepo *repository.ChatRepository, friendRepo *repository.FriendRepository) *Maintenance {
	return &Maintenance{
		ChatRepo:   chatRepo,
		FriendRepo: friendRepo,
	}
}

// RepairConversations rewrites any conversation whose stored summary is
// behind its newest message.
func (m *Maintenance) RepairConversations(ctx context.Context) error {
	convos, err := m.ChatRepo.GetAllConversations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch conversations: %v", err)
	}

	repaired := 0
	for i := range convos {
		convo := convos[i]

		last, err := m.ChatRepo.GetLastMessage(ctx, convo.ID)
		if err != nil {
			logrus.WithError(err).Warnf("Skipping conversation %s during repair", convo.ID)
			continue
		}
		if last == nil {
			continue
		}
		if convo.LastMessage == last.Text && !last.Timestamp.After(convo.LastUpdated) {
			continue
		}

		convo.LastMessage = last.Text
		convo.LastSender = last.SenderID
		convo.LastUpdated = last.Timestamp
		if err := m.ChatRepo.UpsertConversation(ctx, &convo); err != nil {
			logrus.WithError(err).Warnf("Failed to repair conversation %s", convo.ID)
			continue
		}
		repaired++
	}

	logrus.Infof("Conversation repair completed: %d of %d rewritten", repaired, len(convos))
	return nil
}

// PruneNotices deletes acceptance notices older than the retention window.
// Notices are normally consumed when the requester acknowledges them; this
// catches the ones left behind by users who never open the app again.
func (m *Maintenance) PruneNotices(ctx context.Context) error {
	deleted, err := m.FriendRepo.DeleteNoticesOlderThan(ctx, time.Now().Add(-noticeRetention))
	if err != nil {
		return fmt.Errorf("failed to prune notices: %v", err)
	}
	if deleted > 0 {
		logrus.Infof("Pruned %d stale acceptance notices", deleted)
	}
	return nil
}
