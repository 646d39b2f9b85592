package domain

import "fmt"

// GuidanceMode controls how assertively redirect guidance is offered.
type GuidanceMode string

const (
	// GuidanceOn automatically starts a redirect walkthrough on mismatch.
	GuidanceOn GuidanceMode = "ON"
	// GuidanceAsk prompts the user before starting a walkthrough.
	GuidanceAsk GuidanceMode = "ASK"
	// GuidanceOff shows a warning only, never a guided walkthrough.
	GuidanceOff GuidanceMode = "OFF"
)

// ParseGuidanceMode validates a mode string from the palette.
func ParseGuidanceMode(s string) (GuidanceMode, error) {
	switch GuidanceMode(s) {
	case GuidanceOn, GuidanceAsk, GuidanceOff:
		return GuidanceMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// GuidancePreference is the persisted user choice of guidance behavior.
// Field names match the on-disk preference file.
type GuidancePreference struct {
	AIGuidanceMode      GuidanceMode `json:"ai_guidance_mode"`
	FirstRunCompleted   bool         `json:"first_run_completed"`
	ShowContextWarnings bool         `json:"show_context_warnings"`
}

// DefaultPreferences returns the values used when no preference file exists
// or the stored one cannot be read.
func DefaultPreferences() GuidancePreference {
	return GuidancePreference{
		AIGuidanceMode:      GuidanceAsk,
		FirstRunCompleted:   false,
		ShowContextWarnings: true,
	}
}
