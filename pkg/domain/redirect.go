package domain

// Point is a normalized screen coordinate in percent of the host window,
// (0,0) top-left to (100,100) bottom-right.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UIAnimation is one cursor animation primitive rendered by the palette.
type UIAnimation struct {
	Type     string `json:"type"` // "move", "click" or "pause"
	From     *Point `json:"from,omitempty"`
	To       *Point `json:"to,omitempty"`
	At       *Point `json:"at,omitempty"`
	Duration int    `json:"duration,omitempty"` // milliseconds
}

// ContextRef names one side of a redirect: which requirement key and value.
type ContextRef struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// RedirectStep is a generated guidance step shown when the user's context
// does not match a step requirement. It is ephemeral: it lives only for the
// duration of one redirect interaction and is never persisted.
type RedirectStep struct {
	StepType          string        `json:"stepType"`
	Title             string        `json:"title"`
	Instruction       string        `json:"instruction"`
	ReferenceImage    string        `json:"referenceImage,omitempty"`
	CurrentContext    ContextRef    `json:"currentContext"`
	RequiredContext   ContextRef    `json:"requiredContext"`
	UIAnimations      []UIAnimation `json:"uiAnimations"`
	OriginalStepIndex int           `json:"originalStepIndex"`
	Reason            string        `json:"reason,omitempty"`
	IsRedirect        bool          `json:"isRedirect"`
}
