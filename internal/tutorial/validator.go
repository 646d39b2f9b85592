package tutorial

import (
	"fmt"
	"strings"

	"github.com/guidekit/guidekit/pkg/domain"
)

// Issue is one problem found in a tutorial document. StepIndex is -1 for
// document-level issues.
type Issue struct {
	StepIndex int
	Field     string
	Problem   string
}

// Error implements error.
func (i *Issue) Error() string {
	if i.StepIndex < 0 {
		return fmt.Sprintf("%s: %s", i.Field, i.Problem)
	}
	return fmt.Sprintf("steps[%d].%s: %s", i.StepIndex, i.Field, i.Problem)
}

// ValidationError aggregates every issue found in one document. Validation
// never halts on the first problem; authors get the full list at once.
type ValidationError struct {
	Issues []*Issue
}

// Error implements error.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("tutorial document has %d issue(s): %s", len(e.Issues), strings.Join(msgs, "; "))
}

var knownActionTypes = map[string]bool{
	"camera.fit": true, "camera.orient": true, "camera.focus": true,
	"prompt.selectEntity": true, "highlight.body": true,
	"viewport.fit": true, "viewport.capture": true,
}

// Validate checks a tutorial document for missing required fields and
// invalid enum values, collecting all issues instead of stopping at the
// first. Returns nil when the document is clean.
func Validate(t *domain.Tutorial) error {
	var issues []*Issue
	add := func(step int, field, problem string) {
		issues = append(issues, &Issue{StepIndex: step, Field: field, Problem: problem})
	}

	if t.TutorialID == "" {
		add(-1, "tutorialId", "required")
	}
	if t.Title == "" {
		add(-1, "title", "required")
	}
	if len(t.Steps) == 0 {
		add(-1, "steps", "must contain at least one step")
	}

	for i, step := range t.Steps {
		if step.StepID == "" {
			add(i, "stepId", "required")
		}
		if step.Title == "" {
			add(i, "title", "required")
		}
		if step.Instruction == "" {
			add(i, "instruction", "required")
		}

		if step.Requires.Workspace != "" && !validWorkspace(step.Requires.Workspace) {
			add(i, "requires.workspace", fmt.Sprintf("unknown workspace %q", step.Requires.Workspace))
		}
		if step.Requires.Environment != "" && !validEnvironment(step.Requires.Environment) {
			add(i, "requires.environment", fmt.Sprintf("unknown environment %q", step.Requires.Environment))
		}

		for j, qc := range step.QCChecks {
			if !validQCType(qc.Type) {
				add(i, fmt.Sprintf("qcChecks[%d].type", j), fmt.Sprintf("unknown condition type %q", qc.Type))
			}
		}
		for j, action := range step.FusionActions {
			if !knownActionTypes[action.Type] {
				add(i, fmt.Sprintf("fusionActions[%d].type", j), fmt.Sprintf("unknown action type %q", action.Type))
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func validWorkspace(s string) bool {
	for _, w := range domain.Workspaces() {
		if domain.EqualFold(string(w), s) {
			return true
		}
	}
	return false
}

func validEnvironment(s string) bool {
	for _, e := range domain.Environments() {
		if domain.EqualFold(string(e), s) {
			return true
		}
	}
	return false
}

func validQCType(s string) bool {
	for _, t := range domain.QCConditionTypes() {
		if t == s {
			return true
		}
	}
	return false
}
