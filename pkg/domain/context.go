package domain

import "strings"

// Workspace is the top-level mode of the host application.
type Workspace string

const (
	WorkspaceDesign      Workspace = "Design"
	WorkspaceRender      Workspace = "Render"
	WorkspaceAnimation   Workspace = "Animation"
	WorkspaceSimulation  Workspace = "Simulation"
	WorkspaceManufacture Workspace = "Manufacture"
	WorkspaceDrawing     Workspace = "Drawing"
	WorkspaceGenerative  Workspace = "Generative"
	WorkspaceUnknown     Workspace = "Unknown"
)

// Environment is the sub-mode (toolbar tab) within the Design workspace.
type Environment string

const (
	EnvironmentSolid      Environment = "Solid"
	EnvironmentSurface    Environment = "Surface"
	EnvironmentSheetMetal Environment = "Sheet Metal"
	EnvironmentPlastic    Environment = "Plastic"
	EnvironmentMesh       Environment = "Mesh"
	EnvironmentSketch     Environment = "Sketch"
	EnvironmentForm       Environment = "Form"
	EnvironmentUnknown    Environment = "Unknown"
)

// Workspaces lists every known workspace value, used by the document validator.
func Workspaces() []Workspace {
	return []Workspace{
		WorkspaceDesign, WorkspaceRender, WorkspaceAnimation, WorkspaceSimulation,
		WorkspaceManufacture, WorkspaceDrawing, WorkspaceGenerative,
	}
}

// Environments lists every known environment value, used by the document validator.
func Environments() []Environment {
	return []Environment{
		EnvironmentSolid, EnvironmentSurface, EnvironmentSheetMetal,
		EnvironmentPlastic, EnvironmentMesh, EnvironmentSketch, EnvironmentForm,
	}
}

// ContextSnapshot describes where the user currently is in the host UI.
// Snapshots are immutable once produced and always computed fresh from live
// host state; they are never cached across requirement checks.
type ContextSnapshot struct {
	Workspace         Workspace   `json:"workspace"`
	Environment       Environment `json:"environment"`
	HasActiveDocument bool        `json:"hasActiveDocument"`
	HasActiveSketch   bool        `json:"hasActiveSketch"`
	DocumentName      string      `json:"documentName,omitempty"`
}

// Requirement declares the context a step expects before it is attempted.
// Empty string fields impose no constraint; boolean fields only constrain
// when true. String comparisons against the snapshot are case-insensitive.
type Requirement struct {
	Workspace         string `json:"workspace,omitempty" yaml:"workspace,omitempty" mapstructure:"workspace"`
	Environment       string `json:"environment,omitempty" yaml:"environment,omitempty" mapstructure:"environment"`
	HasActiveDocument bool   `json:"hasActiveDocument,omitempty" yaml:"hasActiveDocument,omitempty" mapstructure:"hasActiveDocument"`
	HasActiveSketch   bool   `json:"hasActiveSketch,omitempty" yaml:"hasActiveSketch,omitempty" mapstructure:"hasActiveSketch"`
	Reason            string `json:"reason,omitempty" yaml:"reason,omitempty" mapstructure:"reason"`
}

// IsZero reports whether the requirement imposes no constraint at all.
// The Reason field is advisory text and does not count as a constraint.
func (r Requirement) IsZero() bool {
	return r.Workspace == "" && r.Environment == "" && !r.HasActiveDocument && !r.HasActiveSketch
}

// MismatchType identifies which requirement key a mismatch refers to.
type MismatchType string

const (
	MismatchWorkspace   MismatchType = "workspace"
	MismatchEnvironment MismatchType = "environment"
	MismatchDocument    MismatchType = "document"
	MismatchSketch      MismatchType = "sketch"
)

// Mismatch describes a single violated requirement key.
type Mismatch struct {
	Type     MismatchType `json:"type"`
	Current  string       `json:"current"`
	Required string       `json:"required"`
	Message  string       `json:"message"`
}

// MismatchDetails is the full verdict of a requirement check.
// Invariant: Matched is true exactly when Mismatches is empty.
type MismatchDetails struct {
	Matched    bool            `json:"matched"`
	Current    ContextSnapshot `json:"current"`
	Required   Requirement     `json:"required"`
	Mismatches []Mismatch      `json:"mismatches"`
	Reason     string          `json:"reason"`
}

// EqualFold compares an enum-ish context value with a requirement string,
// ignoring case and surrounding whitespace.
func EqualFold(current, required string) bool {
	return strings.EqualFold(strings.TrimSpace(current), strings.TrimSpace(required))
}
