package redirect

import (
	"fmt"
	"strings"

	"github.com/guidekit/guidekit/pkg/domain"
)

// Resolve generates a redirect step for a mismatch verdict, or nil when the
// context already matches. Only the FIRST mismatch is addressed: guidance is
// single-issue-at-a-time rather than simultaneous multi-fix instructions.
// When no template is authored for the required value, a generic step is
// synthesized from the mismatch's own message so the caller always gets
// actionable text.
func Resolve(details domain.MismatchDetails, originalStepIndex int) *domain.RedirectStep {
	if details.Matched || len(details.Mismatches) == 0 {
		return nil
	}

	m := details.Mismatches[0]

	var (
		kind   string
		target string
	)
	switch {
	case details.Current.HasActiveSketch && !wantsSketchMode(m):
		// No workspace or environment switch is possible while a sketch is
		// being edited, so the user must finish the sketch first.
		kind, target = KindExitSketch, "default"
	case m.Type == domain.MismatchWorkspace:
		kind, target = KindSwitchWorkspace, m.Required
	case m.Type == domain.MismatchEnvironment:
		kind, target = KindSwitchEnvironment, m.Required
	case m.Type == domain.MismatchDocument:
		kind, target = KindOpenDocument, "default"
	case m.Type == domain.MismatchSketch:
		// A missing sketch is fixed by entering sketch mode.
		kind, target = KindSwitchEnvironment, "Sketch"
	}

	step := &domain.RedirectStep{
		StepType:          "redirect",
		CurrentContext:    domain.ContextRef{Type: string(m.Type), Value: m.Current},
		RequiredContext:   domain.ContextRef{Type: string(m.Type), Value: m.Required},
		OriginalStepIndex: originalStepIndex,
		Reason:            details.Reason,
		IsRedirect:        true,
		UIAnimations:      []domain.UIAnimation{},
	}

	tmpl, ok := LookupTemplate(kind, strings.ToLower(target))
	if !ok {
		step.Title = fmt.Sprintf("Navigate to %s", m.Required)
		step.Instruction = m.Message
		if step.Instruction == "" {
			step.Instruction = fmt.Sprintf("Please switch to %s", m.Required)
		}
		return step
	}

	step.Title = tmpl.Title
	step.Instruction = tmpl.Instruction
	step.ReferenceImage = tmpl.ReferenceImage
	step.UIAnimations = tmpl.Animations
	return step
}

// wantsSketchMode reports whether the mismatch is fixed by entering sketch
// mode, in which case an already-active sketch is the goal rather than an
// obstacle.
func wantsSketchMode(m domain.Mismatch) bool {
	if m.Type == domain.MismatchSketch {
		return true
	}
	return m.Type == domain.MismatchEnvironment && domain.EqualFold("Sketch", m.Required)
}
