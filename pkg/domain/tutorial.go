package domain

// QCCondition is a declarative predicate over design state used to tick off
// a checklist item after the fact. Type selects the operator; Expected is
// only meaningful for the *_gte operators.
type QCCondition struct {
	Type            string `json:"type" yaml:"type" mapstructure:"type"`
	Expected        int    `json:"expected,omitempty" yaml:"expected,omitempty" mapstructure:"expected"`
	Text            string `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	ExpectedCommand string `json:"expectedCommand,omitempty" yaml:"expectedCommand,omitempty" mapstructure:"expectedCommand"`
}

// QC condition operators.
const (
	QCSketchExists    = "sketch_exists"
	QCBodyExists      = "body_exists"
	QCFeatureCountGTE = "feature_count_gte"
	QCBodyCountGTE    = "body_count_gte"
	QCNotInSketch     = "not_in_sketch"
	QCInSketch        = "in_sketch"
)

// QCConditionTypes lists the supported operators.
func QCConditionTypes() []string {
	return []string{QCSketchExists, QCBodyExists, QCFeatureCountGTE, QCBodyCountGTE, QCNotInSketch, QCInSketch}
}

// QCResult pairs a condition with its evaluation outcome. A condition whose
// evaluation failed internally is reported as not passed, never as an error.
type QCResult struct {
	Condition QCCondition `json:"condition"`
	Passed    bool        `json:"passed"`
	Message   string      `json:"message,omitempty"`
}

// HostAction is a host-side side effect declared by a step, executed in
// order on step entry (camera moves, selection prompts, highlights).
type HostAction struct {
	Type        string         `json:"type" yaml:"type" mapstructure:"type"`
	Orientation string         `json:"orientation,omitempty" yaml:"orientation,omitempty" mapstructure:"orientation"`
	Target      map[string]any `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
	EntityType  string         `json:"entityType,omitempty" yaml:"entityType,omitempty" mapstructure:"entityType"`
	BodyName    string         `json:"bodyName,omitempty" yaml:"bodyName,omitempty" mapstructure:"bodyName"`
}

// ActionResult reports the outcome of one executed HostAction. Failures are
// recorded per action and never abort the remainder of the batch.
type ActionResult struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TutorialStep is one instructional step. Steps are immutable once loaded;
// VisualStep and ExpandedContent are opaque display payloads passed through
// to the palette untouched.
type TutorialStep struct {
	StepID          string         `json:"stepId" yaml:"stepId"`
	StepNumber      int            `json:"stepNumber" yaml:"stepNumber"`
	Title           string         `json:"title" yaml:"title"`
	Instruction     string         `json:"instruction" yaml:"instruction"`
	DetailedText    string         `json:"detailedText,omitempty" yaml:"detailedText,omitempty"`
	Annotations     []any          `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	QCChecks        []QCCondition  `json:"qcChecks,omitempty" yaml:"qcChecks,omitempty"`
	Warnings        []any          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	UIAnimations    []any          `json:"uiAnimations,omitempty" yaml:"uiAnimations,omitempty"`
	FusionActions   []HostAction   `json:"fusionActions,omitempty" yaml:"fusionActions,omitempty"`
	Requires        Requirement    `json:"requires,omitempty" yaml:"requires,omitempty"`
	CaptureViewport bool           `json:"captureViewport,omitempty" yaml:"captureViewport,omitempty"`
	VisualStep      map[string]any `json:"visualStep,omitempty" yaml:"visualStep,omitempty"`
	ExpandedContent map[string]any `json:"expandedContent,omitempty" yaml:"expandedContent,omitempty"`
}

// Tutorial is one loaded tutorial document: an ordered, randomly addressable
// step sequence. A loaded tutorial replaces any previous one wholesale.
type Tutorial struct {
	TutorialID  string         `json:"tutorialId" yaml:"tutorialId"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []TutorialStep `json:"steps" yaml:"steps"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Step returns the step at index, or false when the index is out of range.
func (t *Tutorial) Step(index int) (TutorialStep, bool) {
	if index < 0 || index >= len(t.Steps) {
		return TutorialStep{}, false
	}
	return t.Steps[index], true
}

// TotalSteps returns the number of steps.
func (t *Tutorial) TotalSteps() int {
	return len(t.Steps)
}

// StepPayload is a step augmented with the derived fields the palette needs.
// This is the only place CurrentIndex/TotalSteps/TutorialTitle are attached,
// which keeps them consistent across every accessor.
type StepPayload struct {
	TutorialStep
	CurrentIndex  int    `json:"currentIndex"`
	TotalSteps    int    `json:"totalSteps"`
	TutorialTitle string `json:"tutorialTitle"`
}
