package domain

import "errors"

// ErrTutorialNotFound is returned when a tutorial document cannot be located.
var ErrTutorialNotFound = errors.New("tutorial not found")

// ErrNoTutorial is returned when navigation is attempted with nothing loaded.
var ErrNoTutorial = errors.New("no tutorial loaded")

// ErrInvalidStepIndex is returned for a navigation target outside the step range.
var ErrInvalidStepIndex = errors.New("invalid step index")

// ErrInvalidMode is returned for an unrecognized guidance mode string.
var ErrInvalidMode = errors.New("invalid guidance mode")

// ErrAssetNotFound is returned when a palette asset cannot be located.
var ErrAssetNotFound = errors.New("asset not found")
