package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
)

// schemaVersion guards the on-disk snapshot format. A bumped version makes
// old snapshots read as "no cached data" instead of decoding garbage.
const schemaVersion = 1

// PreviewCache persists the last-known chat previews per user so the UI can
// be painted before the first live subscription delivery. It is never
// authoritative and is overwritten by every live update; corruption or a
// version mismatch just yields no cached data.
type PreviewCache struct {
	dir string
}

type snapshot struct {
	Version  int                  `json:"version"`
	SavedAt  time.Time            `json:"saved_at"`
	Previews []models.ChatPreview `json:"previews"`
}

// NewPreviewCache creates the cache directory if needed.
func NewPreviewCache(dir string) (*PreviewCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %v", err)
	}
	return &PreviewCache{dir: dir}, nil
}

func (c *PreviewCache) path(userID string) string {
	return filepath.Join(c.dir, "chat_previews_"+userID+".json")
}

// Save writes the snapshot best-effort.
func (c *PreviewCache) Save(userID string, previews []models.ChatPreview, at time.Time) error {
	data, err := json.Marshal(snapshot{
		Version:  schemaVersion,
		SavedAt:  at,
		Previews: previews,
	})
	if err != nil {
		return fmt.Errorf("failed to encode preview snapshot: %v", err)
	}
	if err := os.WriteFile(c.path(userID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write preview snapshot: %v", err)
	}
	return nil
}

// Load returns the cached previews, or ok=false when nothing usable exists.
// Decode failures are logged, never surfaced.
func (c *PreviewCache) Load(userID string) ([]models.ChatPreview, bool) {
	data, err := os.ReadFile(c.path(userID))
	if err != nil {
		return nil, false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logrus.WithError(err).Warn("Discarding corrupt preview cache")
		return nil, false
	}
	if snap.Version != schemaVersion {
		logrus.WithField("version", snap.Version).Info("Discarding preview cache with old schema")
		return nil, false
	}
	return snap.Previews, true
}
