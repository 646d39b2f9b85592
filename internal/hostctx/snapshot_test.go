package hostctx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guidekit/guidekit/internal/hostctx"
	"github.com/guidekit/guidekit/internal/hosttest"
	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

func TestProvider_Current(t *testing.T) {
	t.Run("Default Design Solid", func(t *testing.T) {
		host := hosttest.New()
		p := hostctx.NewProvider(host, nil)

		snap := p.Current()
		assert.Equal(t, domain.WorkspaceDesign, snap.Workspace)
		assert.Equal(t, domain.EnvironmentSolid, snap.Environment)
		assert.True(t, snap.HasActiveDocument)
		assert.False(t, snap.HasActiveSketch)
		assert.Equal(t, "Untitled", snap.DocumentName)
	})

	t.Run("Active Tab Wins Over Sketch State", func(t *testing.T) {
		host := hosttest.New()
		host.EnterSketch("Sketch1")
		host.Tabs = []ports.ToolbarTab{{ID: "SurfaceTab", Name: "Surface", Active: true}}
		p := hostctx.NewProvider(host, nil)

		assert.Equal(t, domain.EnvironmentSurface, p.Current().Environment)
	})

	t.Run("Sketch When No Tab Matches", func(t *testing.T) {
		host := hosttest.New()
		host.Tabs = nil
		host.EnterSketch("Sketch1")
		p := hostctx.NewProvider(host, nil)

		snap := p.Current()
		assert.Equal(t, domain.EnvironmentSketch, snap.Environment)
		assert.True(t, snap.HasActiveSketch)
	})

	t.Run("Workspace Keyword Detection", func(t *testing.T) {
		cases := []struct {
			id   string
			want domain.Workspace
		}{
			{"FusionSolidEnvironment", domain.WorkspaceDesign},
			{"CAMEnvironment", domain.WorkspaceManufacture},
			{"FusionRenderEnvironment", domain.WorkspaceRender},
			{"FusionDocumentationEnvironment_Drawing", domain.WorkspaceDrawing},
			{"SimulationEnvironment", domain.WorkspaceSimulation},
			{"PublisherEnvironment_Animation", domain.WorkspaceAnimation},
			{"GenDesignEnvironment", domain.WorkspaceGenerative},
			{"SomethingElse", domain.WorkspaceUnknown},
		}
		for _, tc := range cases {
			host := hosttest.New()
			host.SetWorkspace(tc.id, "")
			p := hostctx.NewProvider(host, nil)
			assert.Equal(t, tc.want, p.Current().Workspace, "id %s", tc.id)
		}
	})

	t.Run("Never Fails On Host Errors", func(t *testing.T) {
		host := hosttest.New()
		host.Err = errors.New("no active product")
		p := hostctx.NewProvider(host, nil)

		snap := p.Current()
		assert.Equal(t, domain.WorkspaceUnknown, snap.Workspace)
		assert.Equal(t, domain.EnvironmentUnknown, snap.Environment)
		assert.False(t, snap.HasActiveDocument)
		assert.False(t, snap.HasActiveSketch)
	})

	t.Run("Unknown Workspace Without Tabs", func(t *testing.T) {
		host := hosttest.New()
		host.SetWorkspace("FusionRenderEnvironment", "Render")
		p := hostctx.NewProvider(host, nil)

		snap := p.Current()
		assert.Equal(t, domain.WorkspaceRender, snap.Workspace)
		assert.Equal(t, domain.EnvironmentUnknown, snap.Environment)
	})
}
