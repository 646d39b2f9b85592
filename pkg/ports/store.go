package ports

import (
	"context"

	"github.com/guidekit/guidekit/pkg/domain"
)

// PreferenceStore persists the user's guidance preferences across sessions.
// Implementations degrade unreadable or missing state to defaults; Load-side
// failures are never surfaced as errors to navigation logic.
type PreferenceStore interface {
	Preferences(ctx context.Context) (domain.GuidancePreference, error)
	SetGuidanceMode(ctx context.Context, mode domain.GuidanceMode) error
	MarkFirstRunComplete(ctx context.Context) error
	SetShowContextWarnings(ctx context.Context, show bool) error
}

// TutorialSource loads tutorial documents by identifier.
// Returns domain.ErrTutorialNotFound when no document exists for the id.
type TutorialSource interface {
	Load(ctx context.Context, tutorialID string) (*domain.Tutorial, error)
}

// Watchable is implemented by tutorial sources that can notify about
// backend changes, used for hot reload during authoring. The channel
// carries the id of the changed tutorial.
type Watchable interface {
	Watch(ctx context.Context) (<-chan string, error)
}
