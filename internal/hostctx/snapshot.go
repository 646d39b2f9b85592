// Package hostctx reads the host application's UI state into immutable
// context snapshots and evaluates step requirements against them.
package hostctx

import (
	"log/slog"
	"strings"

	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

// workspaceKeywords maps substrings of the host workspace identifier to
// workspaces. Checked in order; first hit wins.
var workspaceKeywords = []struct {
	keyword   string
	workspace domain.Workspace
}{
	{"solidmodeling", domain.WorkspaceDesign},
	{"tooldesign", domain.WorkspaceDesign},
	{"camenv", domain.WorkspaceManufacture},
	{"render", domain.WorkspaceRender},
	{"drawing", domain.WorkspaceDrawing},
	{"simulation", domain.WorkspaceSimulation},
	{"animation", domain.WorkspaceAnimation},
	{"gendesign", domain.WorkspaceGenerative},
}

// environmentKeywords maps toolbar tab id/name substrings to environments.
var environmentKeywords = []struct {
	keyword string
	env     domain.Environment
}{
	{"solid", domain.EnvironmentSolid},
	{"surface", domain.EnvironmentSurface},
	{"sheetmetal", domain.EnvironmentSheetMetal},
	{"sheet metal", domain.EnvironmentSheetMetal},
	{"mesh", domain.EnvironmentMesh},
	{"plastic", domain.EnvironmentPlastic},
	{"form", domain.EnvironmentForm},
	{"sculpt", domain.EnvironmentForm},
}

// Provider produces fresh context snapshots from live host state.
type Provider struct {
	host   ports.HostContext
	logger *slog.Logger
}

// NewProvider creates a snapshot provider reading from host.
func NewProvider(host ports.HostContext, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Provider{host: host, logger: logger}
}

// Current reads the host and returns a snapshot of where the user is.
// It never fails: any host read error degrades the affected field to its
// Unknown/zero value, so callers always get a usable snapshot.
func (p *Provider) Current() domain.ContextSnapshot {
	snap := domain.ContextSnapshot{
		Workspace:   p.detectWorkspace(),
		Environment: domain.EnvironmentUnknown,
	}

	if doc, err := p.host.ActiveDocument(); err == nil {
		snap.HasActiveDocument = doc.Open
		snap.DocumentName = doc.Name
	}
	snap.HasActiveSketch = p.hasActiveSketch()
	snap.Environment = p.detectEnvironment(snap.Workspace, snap.HasActiveSketch)

	return snap
}

func (p *Provider) detectWorkspace() domain.Workspace {
	ws, err := p.host.ActiveWorkspace()
	if err != nil || ws.ID == "" {
		return domain.WorkspaceUnknown
	}

	id := strings.ToLower(ws.ID)
	for _, kw := range workspaceKeywords {
		if strings.Contains(id, kw.keyword) {
			return kw.workspace
		}
	}
	// Solid modeling contexts without a dedicated id still mean Design.
	if strings.Contains(id, "solid") || strings.Contains(id, "design") {
		return domain.WorkspaceDesign
	}
	return domain.WorkspaceUnknown
}

// detectEnvironment resolves the sub-environment. Priority order:
//
//  1. active toolbar tab id/name: the tab signal updates immediately on
//     user click while other host signals can lag by an event tick
//  2. active sketch edit session
//  3. workspace identifier keywords
//  4. Solid when the workspace is Design and nothing else matched
//  5. Unknown
func (p *Provider) detectEnvironment(workspace domain.Workspace, inSketch bool) domain.Environment {
	if tabs, err := p.host.ToolbarTabs(); err == nil {
		for _, tab := range tabs {
			if !tab.Active {
				continue
			}
			id := strings.ToLower(tab.ID)
			name := strings.ToLower(tab.Name)
			for _, kw := range environmentKeywords {
				if strings.Contains(id, kw.keyword) || strings.Contains(name, kw.keyword) {
					return kw.env
				}
			}
			p.logger.Debug("active toolbar tab matched no environment", "tab", tab.Name)
		}
	}

	if inSketch {
		return domain.EnvironmentSketch
	}

	if ws, err := p.host.ActiveWorkspace(); err == nil {
		id := strings.ToLower(ws.ID)
		switch {
		case strings.Contains(id, "sheetmetal"):
			return domain.EnvironmentSheetMetal
		case strings.Contains(id, "surface"):
			return domain.EnvironmentSurface
		case strings.Contains(id, "mesh"):
			return domain.EnvironmentMesh
		case strings.Contains(id, "form"), strings.Contains(id, "tspline"):
			return domain.EnvironmentForm
		}
	}

	if workspace == domain.WorkspaceDesign {
		return domain.EnvironmentSolid
	}
	return domain.EnvironmentUnknown
}

func (p *Provider) hasActiveSketch() bool {
	editType, err := p.host.ActiveEditObjectType()
	if err != nil {
		return false
	}
	return editType == "Sketch"
}
