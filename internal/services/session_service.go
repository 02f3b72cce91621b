package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sessionCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const sessionCodeLength = 6

// SessionService owns collaborative study-session creation, join-by-code and
// membership/shared-set management.
type SessionService struct {
	sessionRepo SessionStore
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo SessionStore) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// generateSessionCode draws six characters uniformly from [A-Z0-9]. Codes are
// not checked against existing sessions; collisions are resolved at join time
// by the stable first-by-id pick.
func generateSessionCode() (string, error) {
	code := make([]byte, sessionCodeLength)
	max := big.NewInt(int64(len(sessionCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate session code: %v", err)
		}
		code[i] = sessionCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// validateSetIDs rejects set ids that cannot be stored as document field
// names. Dots and dollar signs would be interpreted as path operators by the
// merge update.
func validateSetIDs(entries map[string]string) error {
	for setID := range entries {
		if setID == "" {
			return fmt.Errorf("%w: empty set id", ErrValidation)
		}
		if strings.ContainsAny(setID, ".$") {
			return fmt.Errorf("%w: invalid set id %q", ErrValidation, setID)
		}
	}
	return nil
}

// CreateSession creates a session with the creator as sole initial member.
// initialSets maps contributed set ids to the contributor's username.
func (s *SessionService) CreateSession(ctx context.Context, name, creatorID, creatorUsername string, initialSets map[string]string) (*models.StudySession, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty session name", ErrValidation)
	}
	if err := validateSetIDs(initialSets); err != nil {
		return nil, err
	}

	code, err := generateSessionCode()
	if err != nil {
		return nil, err
	}
	if initialSets == nil {
		initialSets = map[string]string{}
	}

	session := &models.StudySession{
		ID:              uuid.NewString(),
		Name:            name,
		CreatorID:       creatorID,
		CreatorUsername: creatorUsername,
		SessionCode:     code,
		SetIDs:          initialSets,
		MemberIDs:       []string{creatorID},
	}

	created, err := s.sessionRepo.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"sessionID": created.ID,
		"code":      created.SessionCode,
	}).Info("Study session created")
	return created, nil
}

// JoinSession adds the user to the session matching the code. Rejoining is a
// no-op; an unknown code returns ErrNotFound with no session mutated. When
// several sessions share a code the first in ascending id order wins.
func (s *SessionService) JoinSession(ctx context.Context, code, userID string) (*models.StudySession, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: empty session code", ErrValidation)
	}

	session, err := s.sessionRepo.FindSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: no session with code %s", ErrNotFound, code)
	}

	if err := s.sessionRepo.AddMember(ctx, session.ID, userID); err != nil {
		return nil, err
	}
	return session, nil
}

// AddSetsToSession merges contributed sets into the session. Entries for a
// set id already present overwrite the contributor. A missing session is a
// no-op.
func (s *SessionService) AddSetsToSession(ctx context.Context, sessionID string, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	if err := validateSetIDs(entries); err != nil {
		return err
	}
	return s.sessionRepo.MergeSets(ctx, sessionID, entries)
}

// GetSession fetches one session.
func (s *SessionService) GetSession(ctx context.Context, id string) (*models.StudySession, error) {
	session, err := s.sessionRepo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: no session %s", ErrNotFound, id)
	}
	return session, nil
}

// ListMemberSessions returns every session the user belongs to.
func (s *SessionService) ListMemberSessions(ctx context.Context, userID string) ([]models.StudySession, error) {
	return s.sessionRepo.GetSessionsByMember(ctx, userID)
}

// SubscribeMemberSessions streams the user's session list on every change.
func (s *SessionService) SubscribeMemberSessions(ctx context.Context, userID string) (<-chan []models.StudySession, error) {
	return s.sessionRepo.WatchMemberSessions(ctx, userID)
}
