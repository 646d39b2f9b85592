package bridge

import "github.com/guidekit/guidekit/pkg/domain"

// Outbound messages. Every response carries its action name and a success
// flag; the remaining fields depend on the action.

type ackMsg struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
}

type errorMsg struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type stepMsg struct {
	Action  string             `json:"action"`
	Success bool               `json:"success"`
	Step    domain.StepPayload `json:"step"`
}

type contextWarningMsg struct {
	Action      string                 `json:"action"`
	Success     bool                   `json:"success"`
	Mismatch    domain.MismatchDetails `json:"mismatch"`
	TargetIndex int                    `json:"targetIndex"`
}

type contextResolvedMsg struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Context domain.ContextSnapshot `json:"context"`
}

type redirectOfferMsg struct {
	Action      string                 `json:"action"`
	Success     bool                   `json:"success"`
	Mismatch    domain.MismatchDetails `json:"mismatch"`
	TargetIndex int                    `json:"targetIndex"`
}

type redirectStepMsg struct {
	Action  string               `json:"action"`
	Success bool                 `json:"success"`
	Step    *domain.RedirectStep `json:"step"`
}

type redirectCompleteMsg struct {
	Action      string `json:"action"`
	Success     bool   `json:"success"`
	TargetIndex int    `json:"targetIndex"`
}

type completionEventMsg struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Event   domain.CompletionEvent `json:"event"`
}

type consentMsg struct {
	Action              string `json:"action"`
	Success             bool   `json:"success"`
	Mode                string `json:"mode"`
	FirstRun            bool   `json:"firstRun"`
	ShowContextWarnings bool   `json:"showContextWarnings"`
}

type consentRequiredMsg struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Mode    string `json:"mode"`
}

type qcResultsMsg struct {
	Action  string            `json:"action"`
	Success bool              `json:"success"`
	Results []domain.QCResult `json:"results"`
}

type designStateMsg struct {
	Action  string             `json:"action"`
	Success bool               `json:"success"`
	State   domain.DesignState `json:"state"`
}

type viewportCapturedMsg struct {
	Action    string `json:"action"`
	Success   bool   `json:"success"`
	Path      string `json:"path"`
	DataURL   string `json:"dataUrl,omitempty"`
	StepIndex int    `json:"stepIndex,omitempty"`
}
