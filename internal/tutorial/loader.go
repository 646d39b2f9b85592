package tutorial

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/pkg/domain"
)

// DirSource loads tutorial documents from a directory. For an id "mug" it
// tries mug.json, mug_tutorial.json, mug.yaml and mug.yml in that order.
// JSON is the primary authoring format; YAML is accepted for convenience.
type DirSource struct {
	dir    string
	logger *slog.Logger
}

// NewDirSource creates a source reading from dir.
func NewDirSource(dir string, logger *slog.Logger) *DirSource {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DirSource{dir: dir, logger: logger}
}

// Dir returns the source directory.
func (s *DirSource) Dir() string {
	return s.dir
}

// Load implements ports.TutorialSource.
func (s *DirSource) Load(ctx context.Context, tutorialID string) (*domain.Tutorial, error) {
	candidates := []string{
		tutorialID + ".json",
		tutorialID + "_tutorial.json",
		tutorialID + ".yaml",
		tutorialID + ".yml",
	}
	for _, name := range candidates {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		t, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("tutorial loaded", "id", tutorialID, "path", path, "steps", t.TotalSteps())
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", domain.ErrTutorialNotFound, tutorialID, s.dir)
}

// ParseFile reads and parses one tutorial document, picking the codec by
// file extension.
func ParseFile(path string) (*domain.Tutorial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTutorialNotFound, path)
		}
		return nil, fmt.Errorf("failed to read tutorial file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return Parse(data)
	}
}

// Parse decodes a JSON tutorial document.
func Parse(data []byte) (*domain.Tutorial, error) {
	var t domain.Tutorial
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tutorial document: %w", err)
	}
	return &t, nil
}

func parseYAML(data []byte) (*domain.Tutorial, error) {
	var t domain.Tutorial
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tutorial document: %w", err)
	}
	return &t, nil
}
