// Package prefs persists guidance preferences across sessions.
package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/pkg/domain"
)

const prefsFileName = "user_preferences.json"

// FileStore keeps preferences in a single JSON file under dir. A missing or
// unreadable file yields defaults rather than an error, so a fresh install
// and a corrupt file both behave as a first run.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write, not here.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, prefsFileName)
}

// Preferences loads the stored preferences, backfilling defaults for any
// missing field. It never fails: read or decode errors reset to defaults.
func (s *FileStore) Preferences(ctx context.Context) (domain.GuidancePreference, error) {
	prefs := domain.DefaultPreferences()

	data, err := os.ReadFile(s.path())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read preferences, using defaults", "err", err)
		}
		return prefs, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("preferences file corrupt, resetting to defaults", "err", err)
		return prefs, nil
	}

	if v, ok := raw["ai_guidance_mode"].(string); ok {
		if mode, err := domain.ParseGuidanceMode(v); err == nil {
			prefs.AIGuidanceMode = mode
		} else {
			s.logger.Warn("ignoring invalid guidance mode", "value", v)
		}
	}
	if v, ok := raw["first_run_completed"].(bool); ok {
		prefs.FirstRunCompleted = v
	}
	if v, ok := raw["show_context_warnings"].(bool); ok {
		prefs.ShowContextWarnings = v
	}
	return prefs, nil
}

// SetGuidanceMode updates the guidance policy and persists it.
func (s *FileStore) SetGuidanceMode(ctx context.Context, mode domain.GuidanceMode) error {
	prefs, _ := s.Preferences(ctx)
	prefs.AIGuidanceMode = mode
	return s.save(prefs)
}

// MarkFirstRunComplete records that the consent prompt has been answered.
func (s *FileStore) MarkFirstRunComplete(ctx context.Context) error {
	prefs, _ := s.Preferences(ctx)
	prefs.FirstRunCompleted = true
	return s.save(prefs)
}

// SetShowContextWarnings toggles non-blocking mismatch notices.
func (s *FileStore) SetShowContextWarnings(ctx context.Context, show bool) error {
	prefs, _ := s.Preferences(ctx)
	prefs.ShowContextWarnings = show
	return s.save(prefs)
}

func (s *FileStore) save(prefs domain.GuidancePreference) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
