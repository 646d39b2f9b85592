package domain

// CompletionEventType classifies a detected user action.
type CompletionEventType string

const (
	EventSketchCreated    CompletionEventType = "sketch_created"
	EventSketchFinished   CompletionEventType = "sketch_finished"
	EventFeatureCreated   CompletionEventType = "feature_created"
	EventExtrudeCreated   CompletionEventType = "extrude_created"
	EventFilletCreated    CompletionEventType = "fillet_created"
	EventChamferCreated   CompletionEventType = "chamfer_created"
	EventRevolveCreated   CompletionEventType = "revolve_created"
	EventSweepCreated     CompletionEventType = "sweep_created"
	EventShellCreated     CompletionEventType = "shell_created"
	EventBodyCreated      CompletionEventType = "body_created"
	EventComponentCreated CompletionEventType = "component_created"
	EventSelectionChanged CompletionEventType = "selection_changed"
	EventDocumentChanged  CompletionEventType = "active_document_changed"
	EventCommandStarted   CompletionEventType = "command_started"
	EventCommandEnded     CompletionEventType = "command_terminated"
)

// CompletionEvent is emitted by the action observer each time a user action
// is detected and classified. Events are fanned out to registered callbacks
// and forwarded to the palette; they are never persisted.
type CompletionEvent struct {
	EventType      CompletionEventType `json:"eventType"`
	EntityName     string              `json:"entityName"`
	EntityID       string              `json:"entityId"`
	AdditionalInfo map[string]any      `json:"additionalInfo"`
}

// DesignState is a point-in-time summary of the open design used by QC
// condition evaluation and the getDesignState palette action.
type DesignState struct {
	HasDesign        bool             `json:"hasDesign"`
	SketchCount      int              `json:"sketchCount"`
	BodyCount        int              `json:"bodyCount"`
	FeatureCount     int              `json:"featureCount"`
	ActiveSketch     string           `json:"activeSketch,omitempty"`
	SelectedEntities []SelectedEntity `json:"selectedEntities"`
}

// SelectedEntity is one entry of the host's active selection set.
type SelectedEntity struct {
	Type string `json:"type"`
	Name string `json:"name"`
}
