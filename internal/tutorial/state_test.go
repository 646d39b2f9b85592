package tutorial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidekit/guidekit/internal/tutorial"
	"github.com/guidekit/guidekit/pkg/domain"
)

func threeSteps() *domain.Tutorial {
	return &domain.Tutorial{
		TutorialID: "mug",
		Title:      "Model a Mug",
		Steps: []domain.TutorialStep{
			{StepID: "s1", StepNumber: 1, Title: "Sketch the base", Instruction: "Draw a circle"},
			{StepID: "s2", StepNumber: 2, Title: "Extrude", Instruction: "Extrude the profile"},
			{StepID: "s3", StepNumber: 3, Title: "Shell", Instruction: "Hollow out the body"},
		},
	}
}

func TestState_LoadResetsCursor(t *testing.T) {
	s := tutorial.NewState()
	_, ok := s.Current()
	assert.False(t, ok)

	payload, ok := s.Load(threeSteps())
	require.True(t, ok)
	assert.Equal(t, 0, payload.CurrentIndex)
	assert.Equal(t, "s1", payload.StepID)

	s.GoTo(2)
	payload, ok = s.Load(threeSteps())
	require.True(t, ok)
	assert.Equal(t, 0, payload.CurrentIndex)
}

func TestState_NextClampsAtEnd(t *testing.T) {
	s := tutorial.NewState()
	s.Load(threeSteps())

	s.Next()
	payload, _ := s.Next()
	assert.Equal(t, 2, payload.CurrentIndex)

	for i := 0; i < 3; i++ {
		payload, ok := s.Next()
		require.True(t, ok)
		assert.Equal(t, 2, payload.CurrentIndex)
		assert.Equal(t, "s3", payload.StepID)
	}
}

func TestState_PrevClampsAtZero(t *testing.T) {
	s := tutorial.NewState()
	s.Load(threeSteps())

	for i := 0; i < 3; i++ {
		payload, ok := s.Prev()
		require.True(t, ok)
		assert.Equal(t, 0, payload.CurrentIndex)
	}
}

func TestState_GoTo(t *testing.T) {
	s := tutorial.NewState()
	s.Load(threeSteps())

	for i := 0; i < 3; i++ {
		payload, ok := s.GoTo(i)
		require.True(t, ok)
		assert.Equal(t, i, payload.CurrentIndex)
	}

	s.GoTo(1)
	for _, bad := range []int{-1, 3, 100} {
		payload, ok := s.GoTo(bad)
		require.True(t, ok)
		assert.Equal(t, 1, payload.CurrentIndex, "out-of-range goTo must not move the cursor")
	}
}

func TestState_PayloadDerivedFields(t *testing.T) {
	s := tutorial.NewState()
	s.Load(threeSteps())

	payload, ok := s.GoTo(1)
	require.True(t, ok)
	assert.Equal(t, 1, payload.CurrentIndex)
	assert.Equal(t, 3, payload.TotalSteps)
	assert.Equal(t, "Model a Mug", payload.TutorialTitle)
	assert.Equal(t, "Extrude", payload.Title)
}
