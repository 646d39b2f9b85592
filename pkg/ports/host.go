package ports

import "github.com/guidekit/guidekit/pkg/domain"

// WorkspaceInfo identifies the host's active workspace.
type WorkspaceInfo struct {
	ID   string
	Name string
}

// ToolbarTab is one tab of the active workspace's toolbar.
type ToolbarTab struct {
	ID     string
	Name   string
	Active bool
}

// DocumentInfo describes the active document, if any.
type DocumentInfo struct {
	Open bool
	Name string
}

// TimelineEntry is one entry of the host's ordered feature timeline.
type TimelineEntry struct {
	EntityType string
	EntityName string
	Healthy    bool
}

// HostContext reads "where the user is" from the host UI. Every method is a
// live query; implementations must not cache across calls.
type HostContext interface {
	ActiveWorkspace() (WorkspaceInfo, error)
	ToolbarTabs() ([]ToolbarTab, error)
	ActiveDocument() (DocumentInfo, error)
	// ActiveEditObjectType returns the concrete type name of the host's
	// active edit object ("Sketch" during sketch editing), or "" when the
	// user is not inside an edit session.
	ActiveEditObjectType() (string, error)
}

// HostDesign reads the open design's modeling state.
type HostDesign interface {
	Timeline() ([]TimelineEntry, error)
	SketchCount() (int, error)
	BodyCount() (int, error)
	ActiveSketchName() (string, error)
	Selection() ([]domain.SelectedEntity, error)
}

// HostViewport drives the camera and viewport.
type HostViewport interface {
	FitView() error
	OrientView(orientation string) error
	FocusView(x, y, z float64) error
	SaveViewportImage(path string) error
	SelectEntityPrompt(entityType string) error
	HighlightBody(name string) error
}

// HostEvents exposes the host's command lifecycle and workspace channels.
// Subscriptions return an unsubscribe func; callbacks are delivered on
// whatever thread the host fires events on.
type HostEvents interface {
	SubscribeCommandStarting(fn func(commandID string)) (func(), error)
	SubscribeCommandTerminated(fn func(commandID string)) (func(), error)
	SubscribeWorkspaceActivated(fn func()) (func(), error)
}

// Host is the full capability surface the engine consumes from the CAD
// application. It is a sensor/actuator boundary: reads of UI and design
// state, a handful of viewport side effects, and two event channels.
type Host interface {
	HostContext
	HostDesign
	HostViewport
	HostEvents
}
