// Package uimap carries a normalized hit-map of the host application's
// Design-workspace chrome. Coordinates are fractions of the window,
// (0,0) top-left to (1,1) bottom-right; redirect cursor animations are
// derived from these bounds rather than hard-coded points.
package uimap

import "github.com/guidekit/guidekit/pkg/domain"

// Bounds is an axis-aligned rectangle in normalized window coordinates.
type Bounds struct {
	Left, Top, Right, Bottom float64
}

// Center returns the rectangle midpoint as a palette point (percent scale).
func (b Bounds) Center() domain.Point {
	return domain.Point{
		X: (b.Left + b.Right) / 2 * 100,
		Y: (b.Top + b.Bottom) / 2 * 100,
	}
}

// Component is one clickable region of the host chrome.
type Component struct {
	Name   string
	Bounds Bounds
}

// Known component identifiers.
const (
	AppMenu           = "app_menu"
	WorkspaceSelector = "workspace_selector"
	TabSolid          = "tab_solid"
	TabSurface        = "tab_surface"
	TabSheetMetal     = "tab_sheet_metal"
	TabMesh           = "tab_mesh"
	TabPlastic        = "tab_plastic"
	TabForm           = "tab_form"
	CreateSketch      = "create_sketch"
	FinishSketch      = "finish_sketch"
	Timeline          = "timeline"
	Browser           = "browser"
	ViewCube          = "view_cube"
)

var components = map[string]Component{
	AppMenu:           {Name: "App Menu / File", Bounds: Bounds{0.015, 0.015, 0.060, 0.060}},
	WorkspaceSelector: {Name: "Workspace Selector", Bounds: Bounds{0.060, 0.070, 0.140, 0.120}},
	TabSolid:          {Name: "SOLID Tab", Bounds: Bounds{0.150, 0.070, 0.210, 0.120}},
	TabSurface:        {Name: "SURFACE Tab", Bounds: Bounds{0.215, 0.070, 0.285, 0.120}},
	TabSheetMetal:     {Name: "SHEET METAL Tab", Bounds: Bounds{0.290, 0.070, 0.380, 0.120}},
	TabPlastic:        {Name: "PLASTIC Tab", Bounds: Bounds{0.385, 0.070, 0.450, 0.120}},
	TabMesh:           {Name: "MESH Tab", Bounds: Bounds{0.455, 0.070, 0.515, 0.120}},
	TabForm:           {Name: "FORM Tab", Bounds: Bounds{0.520, 0.070, 0.580, 0.120}},
	CreateSketch:      {Name: "Create Sketch", Bounds: Bounds{0.150, 0.130, 0.195, 0.200}},
	FinishSketch:      {Name: "Finish Sketch", Bounds: Bounds{0.870, 0.070, 0.930, 0.120}},
	Timeline:          {Name: "Timeline", Bounds: Bounds{0.250, 0.940, 0.750, 0.985}},
	Browser:           {Name: "Browser Tree", Bounds: Bounds{0.010, 0.150, 0.200, 0.700}},
	ViewCube:          {Name: "View Cube", Bounds: Bounds{0.920, 0.150, 0.985, 0.260}},
}

// Lookup returns the component for an identifier.
func Lookup(id string) (Component, bool) {
	c, ok := components[id]
	return c, ok
}

// Center returns the midpoint of a component in palette percent coordinates.
// Falls back to the window center for unknown ids so animation generation
// never fails outright.
func Center(id string) domain.Point {
	if c, ok := components[id]; ok {
		return c.Bounds.Center()
	}
	return domain.Point{X: 50, Y: 50}
}
