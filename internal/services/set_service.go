package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/google/uuid"
)

// SetService handles study set and folder management.
type SetService struct {
	setRepo    SetStore
	folderRepo FolderStore
}

// NewSetService creates a new SetService.
func NewSetService(setRepo SetStore, folderRepo FolderStore) *SetService {
	return &SetService{
		setRepo:    setRepo,
		folderRepo: folderRepo,
	}
}

// CreateSet stores a new flashcard set. Term order is preserved and
// duplicate terms are allowed.
func (s *SetService) CreateSet(ctx context.Context, ownerID, ownerUsername, title string, terms []models.FlashcardTerm) (*models.StudySet, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: empty set title", ErrValidation)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: a set needs at least one term", ErrValidation)
	}

	return s.setRepo.CreateSet(ctx, &models.StudySet{
		ID:              uuid.NewString(),
		Title:           title,
		Terms:           terms,
		OwnerID:         ownerID,
		CreatorUsername: ownerUsername,
	})
}

// GetSet fetches one set.
func (s *SetService) GetSet(ctx context.Context, id string) (*models.StudySet, error) {
	set, err := s.setRepo.GetSetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, fmt.Errorf("%w: no set %s", ErrNotFound, id)
	}
	return set, nil
}

// ListSets returns the owner's sets, newest first.
func (s *SetService) ListSets(ctx context.Context, ownerID string) ([]models.StudySet, error) {
	return s.setRepo.GetSetsByOwner(ctx, ownerID)
}

// GetSetsByIDs resolves a batch of set ids, skipping missing ones.
func (s *SetService) GetSetsByIDs(ctx context.Context, ids []string) ([]models.StudySet, error) {
	if len(ids) == 0 {
		return []models.StudySet{}, nil
	}
	return s.setRepo.GetSetsByIDs(ctx, ids)
}

// UpdateSet overwrites title and terms of an owned set.
func (s *SetService) UpdateSet(ctx context.Context, ownerID, id, title string, terms []models.FlashcardTerm) error {
	set, err := s.setRepo.GetSetByID(ctx, id)
	if err != nil {
		return err
	}
	if set == nil {
		return fmt.Errorf("%w: no set %s", ErrNotFound, id)
	}
	if set.OwnerID != ownerID {
		return fmt.Errorf("%w: set %s is not owned by %s", ErrValidation, id, ownerID)
	}
	return s.setRepo.UpdateSet(ctx, id, title, terms)
}

// DeleteSet removes an owned set. Folder memberships keep the id; folder
// reads tolerate it dangling.
func (s *SetService) DeleteSet(ctx context.Context, ownerID, id string) error {
	set, err := s.setRepo.GetSetByID(ctx, id)
	if err != nil {
		return err
	}
	if set == nil {
		return nil
	}
	if set.OwnerID != ownerID {
		return fmt.Errorf("%w: set %s is not owned by %s", ErrValidation, id, ownerID)
	}
	return s.setRepo.DeleteSet(ctx, id)
}

// MonthGroup is one library section: all sets created in the same month.
type MonthGroup struct {
	Label string            `json:"label"`
	Sets  []models.StudySet `json:"sets"`
}

// GroupSetsByMonth buckets sets into "January 2006" sections, months
// descending and sets within a month newest first.
func GroupSetsByMonth(sets []models.StudySet) []MonthGroup {
	buckets := map[time.Time][]models.StudySet{}
	for _, set := range sets {
		key := time.Date(set.Timestamp.Year(), set.Timestamp.Month(), 1, 0, 0, 0, 0, time.UTC)
		buckets[key] = append(buckets[key], set)
	}

	keys := make([]time.Time, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].After(keys[j]) })

	groups := make([]MonthGroup, 0, len(keys))
	for _, key := range keys {
		sets := buckets[key]
		sort.Slice(sets, func(i, j int) bool { return sets[i].Timestamp.After(sets[j].Timestamp) })
		groups = append(groups, MonthGroup{
			Label: key.Format("January 2006"),
			Sets:  sets,
		})
	}
	return groups
}

// CreateFolder stores a new, possibly empty, folder.
func (s *SetService) CreateFolder(ctx context.Context, ownerID, name string, setIDs []string) (*models.StudyFolder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty folder name", ErrValidation)
	}
	return s.folderRepo.CreateFolder(ctx, &models.StudyFolder{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: ownerID,
		SetIDs:  setIDs,
	})
}

// ListFolders returns the owner's folders.
func (s *SetService) ListFolders(ctx context.Context, ownerID string) ([]models.StudyFolder, error) {
	return s.folderRepo.GetFoldersByOwner(ctx, ownerID)
}

// GetFolderSets resolves a folder's member sets, skipping dangling ids.
func (s *SetService) GetFolderSets(ctx context.Context, folderID string) (*models.StudyFolder, []models.StudySet, error) {
	folder, err := s.folderRepo.GetFolderByID(ctx, folderID)
	if err != nil {
		return nil, nil, err
	}
	if folder == nil {
		return nil, nil, fmt.Errorf("%w: no folder %s", ErrNotFound, folderID)
	}
	if len(folder.SetIDs) == 0 {
		return folder, []models.StudySet{}, nil
	}
	sets, err := s.setRepo.GetSetsByIDs(ctx, folder.SetIDs)
	if err != nil {
		return nil, nil, err
	}
	return folder, sets, nil
}

// ownedFolder fetches a folder and checks it belongs to ownerID.
func (s *SetService) ownedFolder(ctx context.Context, ownerID, folderID string) (*models.StudyFolder, error) {
	folder, err := s.folderRepo.GetFolderByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}
	if folder.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: folder %s is not owned by %s", ErrValidation, folderID, ownerID)
	}
	return folder, nil
}

// RenameFolder updates the name of an owned folder.
func (s *SetService) RenameFolder(ctx context.Context, ownerID, folderID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty folder name", ErrValidation)
	}
	folder, err := s.ownedFolder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if folder == nil {
		return fmt.Errorf("%w: no folder %s", ErrNotFound, folderID)
	}
	return s.folderRepo.RenameFolder(ctx, folderID, name)
}

// AddSetToFolder unions a set into an owned folder; a set may belong to any
// number of folders.
func (s *SetService) AddSetToFolder(ctx context.Context, ownerID, folderID, setID string) error {
	folder, err := s.ownedFolder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if folder == nil {
		return fmt.Errorf("%w: no folder %s", ErrNotFound, folderID)
	}
	return s.folderRepo.AddSetToFolder(ctx, folderID, setID)
}

// RemoveSetFromFolder drops a set from an owned folder's membership only.
func (s *SetService) RemoveSetFromFolder(ctx context.Context, ownerID, folderID, setID string) error {
	folder, err := s.ownedFolder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if folder == nil {
		return fmt.Errorf("%w: no folder %s", ErrNotFound, folderID)
	}
	return s.folderRepo.RemoveSetFromFolder(ctx, folderID, setID)
}

// DeleteFolder removes an owned folder; member sets are untouched. Deleting a
// missing folder is a no-op, same as DeleteSet.
func (s *SetService) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	folder, err := s.ownedFolder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if folder == nil {
		return nil
	}
	return s.folderRepo.DeleteFolder(ctx, folderID)
}
