// Package assets serves the palette's static images and converts reference
// images into data URLs embeddable in redirect steps.
package assets

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/pkg/domain"
)

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// Manager resolves asset names inside a single root directory. Name lookups
// are confined to the root; path traversal in a name is rejected.
type Manager struct {
	root   string
	logger *slog.Logger
}

// NewManager creates a manager rooted at dir.
func NewManager(dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{root: dir, logger: logger}
}

// Root returns the asset directory.
func (m *Manager) Root() string {
	return m.root
}

// Resolve maps an asset name to its path on disk, or an error when the name
// escapes the root or the file does not exist.
func (m *Manager) Resolve(name string) (string, error) {
	clean := filepath.Clean("/" + name)
	path := filepath.Join(m.root, clean)
	if !strings.HasPrefix(path, filepath.Clean(m.root)+string(filepath.Separator)) {
		return "", fmt.Errorf("asset name %q escapes asset root", name)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("asset %s: %w", name, domain.ErrAssetNotFound)
		}
		return "", err
	}
	return path, nil
}

// ContentType returns the MIME type for an asset path, defaulting to a byte
// stream for unknown extensions.
func ContentType(path string) string {
	if mime, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// DataURL reads an asset and returns it as a base64 data URL, so reference
// images survive being embedded in a JSON message.
func (m *Manager) DataURL(name string) (string, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return "", err
	}
	return FileDataURL(path)
}

// FileDataURL reads any file into a base64 data URL. Used for viewport
// captures, which live outside the asset root.
func FileDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return fmt.Sprintf("data:%s;base64,%s", ContentType(path), base64.StdEncoding.EncodeToString(data)), nil
}
