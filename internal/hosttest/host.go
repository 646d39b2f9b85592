// Package hosttest provides a scripted in-memory host for tests.
package hosttest

import (
	"sync"

	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

// Host is a fake ports.Host whose readable state is set directly by tests
// and whose events are fired with FireCommandStarting and friends. All
// methods are safe for concurrent use.
type Host struct {
	mu sync.Mutex

	Workspace      ports.WorkspaceInfo
	Tabs           []ports.ToolbarTab
	Document       ports.DocumentInfo
	EditObjectType string

	TimelineEntries []ports.TimelineEntry
	Sketches        int
	Bodies          int
	ActiveSketch    string
	Selected        []domain.SelectedEntity

	// Err, when set, is returned by every read method.
	Err error

	// ViewportCalls records viewport side effects in call order, e.g.
	// "fit", "orient:FRONT", "focus", "capture:/tmp/x.png".
	ViewportCalls []string

	nextSub    int
	cmdStart   map[int]func(string)
	cmdEnd     map[int]func(string)
	wsActivate map[int]func()
}

// New creates a fake host with an open design document in the Design
// workspace, Solid tab active.
func New() *Host {
	return &Host{
		Workspace: ports.WorkspaceInfo{ID: "FusionSolidEnvironment", Name: "Design"},
		Tabs: []ports.ToolbarTab{
			{ID: "SolidTab", Name: "Solid", Active: true},
			{ID: "SurfaceTab", Name: "Surface"},
		},
		Document:   ports.DocumentInfo{Open: true, Name: "Untitled"},
		cmdStart:   map[int]func(string){},
		cmdEnd:     map[int]func(string){},
		wsActivate: map[int]func(){},
	}
}

func (h *Host) ActiveWorkspace() (ports.WorkspaceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Workspace, h.Err
}

func (h *Host) ToolbarTabs() ([]ports.ToolbarTab, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]ports.ToolbarTab(nil), h.Tabs...), h.Err
}

func (h *Host) ActiveDocument() (ports.DocumentInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Document, h.Err
}

func (h *Host) ActiveEditObjectType() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.EditObjectType, h.Err
}

func (h *Host) Timeline() ([]ports.TimelineEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]ports.TimelineEntry(nil), h.TimelineEntries...), h.Err
}

func (h *Host) SketchCount() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Sketches, h.Err
}

func (h *Host) BodyCount() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Bodies, h.Err
}

func (h *Host) ActiveSketchName() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ActiveSketch, h.Err
}

func (h *Host) Selection() ([]domain.SelectedEntity, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.SelectedEntity(nil), h.Selected...), h.Err
}

func (h *Host) FitView() error {
	h.record("fit")
	return nil
}

func (h *Host) OrientView(orientation string) error {
	h.record("orient:" + orientation)
	return nil
}

func (h *Host) FocusView(x, y, z float64) error {
	h.record("focus")
	return nil
}

func (h *Host) SaveViewportImage(path string) error {
	h.record("capture:" + path)
	return nil
}

func (h *Host) SelectEntityPrompt(entityType string) error {
	h.record("select:" + entityType)
	return nil
}

func (h *Host) HighlightBody(name string) error {
	h.record("highlight:" + name)
	return nil
}

func (h *Host) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ViewportCalls = append(h.ViewportCalls, call)
}

// Calls returns a copy of the recorded viewport calls.
func (h *Host) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ViewportCalls...)
}

func (h *Host) SubscribeCommandStarting(fn func(string)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.cmdStart[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.cmdStart, id)
	}, nil
}

func (h *Host) SubscribeCommandTerminated(fn func(string)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.cmdEnd[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.cmdEnd, id)
	}, nil
}

func (h *Host) SubscribeWorkspaceActivated(fn func()) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.wsActivate[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.wsActivate, id)
	}, nil
}

// FireCommandStarting delivers a command-starting event to all subscribers.
func (h *Host) FireCommandStarting(commandID string) {
	for _, fn := range h.subscribersCmd(h.cmdStart) {
		fn(commandID)
	}
}

// FireCommandTerminated delivers a command-terminated event to all subscribers.
func (h *Host) FireCommandTerminated(commandID string) {
	for _, fn := range h.subscribersCmd(h.cmdEnd) {
		fn(commandID)
	}
}

// FireWorkspaceActivated delivers a workspace-activated event.
func (h *Host) FireWorkspaceActivated() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.wsActivate))
	for _, fn := range h.wsActivate {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (h *Host) subscribersCmd(m map[int]func(string)) []func(string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := make([]func(string), 0, len(m))
	for _, fn := range m {
		fns = append(fns, fn)
	}
	return fns
}

// AppendTimeline grows the timeline with a healthy entry, simulating a
// completed modeling operation.
func (h *Host) AppendTimeline(entityType, entityName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.TimelineEntries = append(h.TimelineEntries, ports.TimelineEntry{
		EntityType: entityType,
		EntityName: entityName,
		Healthy:    true,
	})
}

// EnterSketch simulates entering sketch edit mode.
func (h *Host) EnterSketch(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.EditObjectType = "Sketch"
	h.ActiveSketch = name
}

// ExitSketch simulates finishing the active sketch.
func (h *Host) ExitSketch() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.EditObjectType = ""
	h.ActiveSketch = ""
}

// SetWorkspace switches the reported workspace and toolbar tab.
func (h *Host) SetWorkspace(id, name string, tabs ...ports.ToolbarTab) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Workspace = ports.WorkspaceInfo{ID: id, Name: name}
	h.Tabs = tabs
}
