// Package redirect generates guidance steps that walk the user back to the
// context a tutorial step requires. Templates are pre-authored per
// (mismatch kind, target value); cursor animation coordinates come from the
// uimap hit-map.
package redirect

import (
	"github.com/guidekit/guidekit/internal/uimap"
	"github.com/guidekit/guidekit/pkg/domain"
)

// Template kinds.
const (
	KindSwitchWorkspace   = "switchWorkspace"
	KindSwitchEnvironment = "switchEnvironment"
	KindOpenDocument      = "openDocument"
	KindExitSketch        = "exitSketch"
)

// Template is one pre-authored guidance script.
type Template struct {
	Title          string
	Instruction    string
	ReferenceImage string
	Animations     []domain.UIAnimation
}

func pt(p domain.Point) *domain.Point { return &p }

// moveClick builds the common "move cursor to target, click, settle" script.
func moveClick(target domain.Point) []domain.UIAnimation {
	return []domain.UIAnimation{
		{Type: "move", From: pt(domain.Point{X: 50, Y: 50}), To: pt(target), Duration: 500},
		{Type: "click", At: pt(target)},
		{Type: "pause", Duration: 300},
	}
}

// workspaceSwitch builds the two-stage "open dropdown, pick entry" script.
func workspaceSwitch(entryOffsetY float64) []domain.UIAnimation {
	selector := uimap.Center(uimap.WorkspaceSelector)
	entry := domain.Point{X: selector.X, Y: selector.Y + entryOffsetY}
	return []domain.UIAnimation{
		{Type: "move", From: pt(domain.Point{X: 50, Y: 50}), To: pt(selector), Duration: 500},
		{Type: "click", At: pt(selector)},
		{Type: "pause", Duration: 400},
		{Type: "move", From: pt(selector), To: pt(entry), Duration: 300},
		{Type: "click", At: pt(entry)},
	}
}

var environmentTemplates = map[string]Template{
	"solid": {
		Title:          "Switch to Solid Environment",
		Instruction:    "Click the SOLID tab in the Design toolbar to access solid modeling tools.",
		ReferenceImage: "design_tabs.png",
		Animations:     moveClick(uimap.Center(uimap.TabSolid)),
	},
	"surface": {
		Title:          "Switch to Surface Environment",
		Instruction:    "Click the SURFACE tab in the Design toolbar to access surface modeling tools.",
		ReferenceImage: "design_tabs.png",
		Animations:     moveClick(uimap.Center(uimap.TabSurface)),
	},
	"sheet metal": {
		Title:          "Switch to Sheet Metal Environment",
		Instruction:    "Click the SHEET METAL tab in the Design toolbar to access sheet metal tools.",
		ReferenceImage: "design_tabs.png",
		Animations:     moveClick(uimap.Center(uimap.TabSheetMetal)),
	},
	"plastic": {
		Title:          "Switch to Plastic Environment",
		Instruction:    "Click the PLASTIC tab in the Design toolbar to access plastic part tools.",
		ReferenceImage: "design_tabs.png",
		Animations:     moveClick(uimap.Center(uimap.TabPlastic)),
	},
	"mesh": {
		Title:          "Switch to Mesh Environment",
		Instruction:    "Click the MESH tab in the Design toolbar to access mesh editing tools.",
		ReferenceImage: "design_tabs.png",
		Animations:     moveClick(uimap.Center(uimap.TabMesh)),
	},
	"sketch": {
		Title:          "Enter Sketch Mode",
		Instruction:    "Double-click a sketch in the timeline or browser, or click Create Sketch to start a new one.",
		ReferenceImage: "sketch_mode.png",
		Animations: []domain.UIAnimation{
			{Type: "move", From: pt(domain.Point{X: 50, Y: 50}), To: pt(uimap.Center(uimap.CreateSketch)), Duration: 500},
			{Type: "click", At: pt(uimap.Center(uimap.CreateSketch))},
			{Type: "click", At: pt(uimap.Center(uimap.CreateSketch))},
			{Type: "pause", Duration: 300},
		},
	},
	"form": {
		Title:          "Switch to Form (T-Spline) Environment",
		Instruction:    "Click Create Form in the toolbar, or double-click an existing Form feature.",
		ReferenceImage: "form_mode.png",
		Animations:     moveClick(uimap.Center(uimap.TabForm)),
	},
}

var workspaceTemplates = map[string]Template{
	"design": {
		Title:          "Switch to Design Workspace",
		Instruction:    "Click the workspace dropdown at the top-left and select 'Design'.",
		ReferenceImage: "workspace_selector.png",
		Animations:     workspaceSwitch(10),
	},
	"render": {
		Title:          "Switch to Render Workspace",
		Instruction:    "Click the workspace dropdown at the top-left and select 'Render'.",
		ReferenceImage: "workspace_selector.png",
		Animations:     workspaceSwitch(16),
	},
	"animation": {
		Title:          "Switch to Animation Workspace",
		Instruction:    "Click the workspace dropdown at the top-left and select 'Animation'.",
		ReferenceImage: "workspace_selector.png",
		Animations:     workspaceSwitch(22),
	},
	"simulation": {
		Title:          "Switch to Simulation Workspace",
		Instruction:    "Click the workspace dropdown at the top-left and select 'Simulation'.",
		ReferenceImage: "workspace_selector.png",
		Animations:     workspaceSwitch(28),
	},
	"manufacture": {
		Title:          "Switch to Manufacture Workspace",
		Instruction:    "Click the workspace dropdown at the top-left and select 'Manufacture'.",
		ReferenceImage: "workspace_selector.png",
		Animations:     workspaceSwitch(34),
	},
	"drawing": {
		Title:          "Switch to Drawing Workspace",
		Instruction:    "Click the workspace dropdown at the top-left and select 'Drawing'.",
		ReferenceImage: "workspace_selector.png",
		Animations:     workspaceSwitch(40),
	},
}

var openDocumentTemplate = Template{
	Title:          "Open a Document",
	Instruction:    "Open an existing design or create a new one from File > New Design.",
	ReferenceImage: "new_design.png",
	Animations:     moveClick(uimap.Center(uimap.AppMenu)),
}

var exitSketchTemplate = Template{
	Title:          "Exit Sketch Mode",
	Instruction:    "Click 'Finish Sketch' in the toolbar or press Escape to exit sketch editing.",
	ReferenceImage: "finish_sketch.png",
	Animations:     moveClick(uimap.Center(uimap.FinishSketch)),
}

// LookupTemplate returns the template for a redirect kind and target value,
// if one is authored. Target matching is case-insensitive via lower-cased keys.
func LookupTemplate(kind, target string) (Template, bool) {
	switch kind {
	case KindSwitchEnvironment:
		t, ok := environmentTemplates[target]
		return t, ok
	case KindSwitchWorkspace:
		t, ok := workspaceTemplates[target]
		return t, ok
	case KindOpenDocument:
		return openDocumentTemplate, true
	case KindExitSketch:
		return exitSketchTemplate, true
	}
	return Template{}, false
}

// AvailableTemplates summarizes authored targets per kind, for tooling.
func AvailableTemplates() map[string][]string {
	out := map[string][]string{
		KindOpenDocument: {"default"},
		KindExitSketch:   {"default"},
	}
	for k := range environmentTemplates {
		out[KindSwitchEnvironment] = append(out[KindSwitchEnvironment], k)
	}
	for k := range workspaceTemplates {
		out[KindSwitchWorkspace] = append(out[KindSwitchWorkspace], k)
	}
	return out
}
