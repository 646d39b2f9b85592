// Package tutorial holds the loaded step sequence and the current step
// cursor, plus document loading, validation and hot-reload watching.
// The cursor is pure data movement; navigation policy lives in the guide
// package.
package tutorial

import "github.com/guidekit/guidekit/pkg/domain"

// State owns the active tutorial and the 0-based step cursor. All mutators
// clamp the cursor to [0, totalSteps-1]; it is never out of range after a
// successful operation. State is mutated only from the engine's interactive
// loop, so it carries no locking.
type State struct {
	tutorial *domain.Tutorial
	index    int
}

// NewState creates an empty cursor with no tutorial loaded.
func NewState() *State {
	return &State{}
}

// Load replaces any loaded tutorial wholesale and resets the cursor to 0.
func (s *State) Load(t *domain.Tutorial) (domain.StepPayload, bool) {
	s.tutorial = t
	s.index = 0
	return s.payload()
}

// Tutorial returns the loaded tutorial, or nil.
func (s *State) Tutorial() *domain.Tutorial {
	return s.tutorial
}

// Index returns the current cursor position.
func (s *State) Index() int {
	return s.index
}

// TotalSteps returns the loaded tutorial's step count, 0 when none.
func (s *State) TotalSteps() int {
	if s.tutorial == nil {
		return 0
	}
	return s.tutorial.TotalSteps()
}

// Current returns the step under the cursor.
func (s *State) Current() (domain.StepPayload, bool) {
	return s.payload()
}

// Next advances the cursor. At the last step it is a no-op returning the
// last step unchanged.
func (s *State) Next() (domain.StepPayload, bool) {
	if s.tutorial != nil && s.index < s.tutorial.TotalSteps()-1 {
		s.index++
	}
	return s.payload()
}

// Prev moves the cursor back. At index 0 it is a no-op.
func (s *State) Prev() (domain.StepPayload, bool) {
	if s.index > 0 {
		s.index--
	}
	return s.payload()
}

// GoTo moves the cursor to index. Out-of-range indices are ignored and the
// cursor stays where it was.
func (s *State) GoTo(index int) (domain.StepPayload, bool) {
	if s.tutorial != nil && index >= 0 && index < s.tutorial.TotalSteps() {
		s.index = index
	}
	return s.payload()
}

// payload is the single place the derived display fields are attached,
// which keeps currentIndex/totalSteps/tutorialTitle consistent everywhere.
func (s *State) payload() (domain.StepPayload, bool) {
	if s.tutorial == nil {
		return domain.StepPayload{}, false
	}
	step, ok := s.tutorial.Step(s.index)
	if !ok {
		return domain.StepPayload{}, false
	}
	return domain.StepPayload{
		TutorialStep:  step,
		CurrentIndex:  s.index,
		TotalSteps:    s.tutorial.TotalSteps(),
		TutorialTitle: s.tutorial.Title,
	}, true
}
