package guide

import (
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

// Runner executes a step's declared host side effects. Each action's failure
// is recorded in its result and never stops the remaining actions.
type Runner struct {
	viewport ports.HostViewport
	logger   *slog.Logger
}

// NewRunner creates an action runner over the host viewport.
func NewRunner(viewport ports.HostViewport, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{viewport: viewport, logger: logger}
}

type focusTarget struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

// Execute runs the actions in declared order and returns one result per
// action.
func (r *Runner) Execute(actions []domain.HostAction) []domain.ActionResult {
	results := make([]domain.ActionResult, 0, len(actions))
	for _, action := range actions {
		result := domain.ActionResult{Action: action.Type, Success: true}
		if err := r.run(action); err != nil {
			result.Success = false
			result.Message = err.Error()
			r.logger.Warn("host action failed", "action", action.Type, "err", err)
		}
		results = append(results, result)
	}
	return results
}

func (r *Runner) run(action domain.HostAction) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("action panicked: %v", rec)
		}
	}()

	switch action.Type {
	case "camera.fit", "viewport.fit":
		return r.viewport.FitView()
	case "camera.orient":
		if action.Orientation == "" {
			return fmt.Errorf("camera.orient requires an orientation")
		}
		return r.viewport.OrientView(action.Orientation)
	case "camera.focus":
		var target focusTarget
		if derr := mapstructure.Decode(action.Target, &target); derr != nil {
			return fmt.Errorf("camera.focus target: %w", derr)
		}
		return r.viewport.FocusView(target.X, target.Y, target.Z)
	case "prompt.selectEntity":
		if action.EntityType == "" {
			return fmt.Errorf("prompt.selectEntity requires an entityType")
		}
		return r.viewport.SelectEntityPrompt(action.EntityType)
	case "highlight.body":
		if action.BodyName == "" {
			return fmt.Errorf("highlight.body requires a bodyName")
		}
		return r.viewport.HighlightBody(action.BodyName)
	case "viewport.capture":
		var target struct {
			Path string `mapstructure:"path"`
		}
		if derr := mapstructure.Decode(action.Target, &target); derr != nil {
			return fmt.Errorf("viewport.capture target: %w", derr)
		}
		if target.Path == "" {
			return fmt.Errorf("viewport.capture requires a target path")
		}
		return r.viewport.SaveViewportImage(target.Path)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}
