// Package guide orchestrates tutorial navigation: cursor moves, context
// checks, warnings, and redirect walkthroughs.
package guide

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/guidekit/guidekit/internal/hostctx"
	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/internal/metrics"
	"github.com/guidekit/guidekit/internal/observer"
	"github.com/guidekit/guidekit/internal/poller"
	"github.com/guidekit/guidekit/internal/redirect"
	"github.com/guidekit/guidekit/internal/tutorial"
	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

// captureSettleDelay gives the host camera time to finish animating before
// an automatic viewport capture.
const captureSettleDelay = 400 * time.Millisecond

// Notifier receives the coordinator's unsolicited outbound messages. The
// palette bridge implements it; tests substitute a recorder.
type Notifier interface {
	ContextWarning(details domain.MismatchDetails, targetIndex int)
	ContextResolved(snap domain.ContextSnapshot)
	RedirectOffer(details domain.MismatchDetails, targetIndex int)
	RedirectStarted(step *domain.RedirectStep)
	RedirectComplete(targetIndex int)
	StepChanged(payload domain.StepPayload)
	ViewportCaptured(path string, stepIndex int)
}

type pendingRedirect struct {
	target int
	req    domain.Requirement
}

// Coordinator is the single owner of navigation state. All of its methods
// must be called from the engine's interactive loop; the poller is the only
// off-loop worker and hands results back through post.
type Coordinator struct {
	state     *tutorial.State
	source    ports.TutorialSource
	snapshots *hostctx.Provider
	poller    *poller.Poller
	observer  *observer.Observer
	prefs     ports.PreferenceStore
	runner    *Runner
	notifier  Notifier
	post      func(func())
	logger    *slog.Logger
	metrics   *metrics.Set

	captureDir string
	pending    *pendingRedirect
}

// Config wires a Coordinator's collaborators.
type Config struct {
	Source    ports.TutorialSource
	Snapshots *hostctx.Provider
	Poller    *poller.Poller
	Observer  *observer.Observer
	Prefs     ports.PreferenceStore
	Runner    *Runner
	Notifier  Notifier
	// Post marshals a callback onto the interactive loop. Required for the
	// delayed viewport capture; defaults to direct invocation.
	Post       func(func())
	Logger     *slog.Logger
	Metrics    *metrics.Set
	CaptureDir string
}

// New creates a coordinator with no tutorial loaded.
func New(cfg Config) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}
	if cfg.Post == nil {
		cfg.Post = func(fn func()) { fn() }
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.CaptureDir == "" {
		cfg.CaptureDir = os.TempDir()
	}
	return &Coordinator{
		state:      tutorial.NewState(),
		source:     cfg.Source,
		snapshots:  cfg.Snapshots,
		poller:     cfg.Poller,
		observer:   cfg.Observer,
		prefs:      cfg.Prefs,
		runner:     cfg.Runner,
		notifier:   cfg.Notifier,
		post:       cfg.Post,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		captureDir: cfg.CaptureDir,
	}
}

// SetNotifier replaces the outbound event sink. Used at wiring time when
// the notifier (the palette bridge) is constructed after the coordinator.
func (c *Coordinator) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	c.notifier = n
}

// State exposes the tutorial cursor, read-only for callers.
func (c *Coordinator) State() *tutorial.State {
	return c.state
}

// LoadTutorial fetches a tutorial by id, validates it, makes it current and
// returns the first step's payload.
func (c *Coordinator) LoadTutorial(ctx context.Context, id string) (domain.StepPayload, error) {
	t, err := c.source.Load(ctx, id)
	if err != nil {
		return domain.StepPayload{}, err
	}
	if err := tutorial.Validate(t); err != nil {
		return domain.StepPayload{}, fmt.Errorf("tutorial %s: %w", id, err)
	}
	return c.LoadTutorialData(t)
}

// LoadTutorialData makes an already-parsed tutorial current, replacing any
// previous one and resetting the cursor to the first step.
func (c *Coordinator) LoadTutorialData(t *domain.Tutorial) (domain.StepPayload, error) {
	c.poller.Stop()
	c.pending = nil

	payload, ok := c.state.Load(t)
	if !ok {
		return domain.StepPayload{}, fmt.Errorf("%w: tutorial has no steps", domain.ErrNoTutorial)
	}
	c.observer.ResetTracking()
	c.logger.Info("tutorial loaded", "tutorialId", t.TutorialID, "steps", t.TotalSteps())

	c.enterStep(payload)
	return payload, nil
}

// Navigate moves the cursor per direction ("next", "prev", "goToStep"). A
// mismatch between live context and the target step's requirement produces a
// non-blocking warning and a slow resolution poll, but never blocks the
// move. Returns the new step payload.
func (c *Coordinator) Navigate(ctx context.Context, direction string, explicitIndex int) (domain.StepPayload, error) {
	t := c.state.Tutorial()
	if t == nil {
		return domain.StepPayload{}, domain.ErrNoTutorial
	}

	var target int
	switch direction {
	case "next":
		target = c.state.Index() + 1
		if target >= t.TotalSteps() {
			// Clamp: repeated next at the end keeps returning the last step.
			payload, _ := c.state.Current()
			return payload, nil
		}
	case "prev":
		target = c.state.Index() - 1
		if target < 0 {
			payload, _ := c.state.Current()
			return payload, nil
		}
	case "goToStep":
		target = explicitIndex
	default:
		return domain.StepPayload{}, fmt.Errorf("unknown navigation direction %q", direction)
	}

	if target < 0 || target >= t.TotalSteps() {
		return domain.StepPayload{}, fmt.Errorf("%w: %d", domain.ErrInvalidStepIndex, target)
	}

	c.metrics.Navigations.WithLabelValues(direction).Inc()

	// A resolution watch from a previous attempt must not linger.
	c.poller.Stop()
	c.pending = nil

	step, _ := t.Step(target)
	if !step.Requires.IsZero() {
		snap := c.snapshots.Current()
		details := hostctx.DescribeMismatch(snap, step.Requires)
		if !details.Matched {
			c.warnMismatch(ctx, details, target)
		}
	}

	payload, _ := c.state.GoTo(target)
	c.enterStep(payload)
	return payload, nil
}

// warnMismatch informs the palette without blocking the move, then watches
// for the user to fix the context on their own.
func (c *Coordinator) warnMismatch(ctx context.Context, details domain.MismatchDetails, target int) {
	if c.showWarnings(ctx) {
		c.metrics.ContextWarnings.Inc()
		c.notifier.ContextWarning(details, target)
	}
	req := details.Required
	c.poller.Start(req, poller.WarningInterval, func(snap domain.ContextSnapshot) {
		c.metrics.ContextResolved.Inc()
		c.notifier.ContextResolved(snap)
	}, nil)
}

func (c *Coordinator) showWarnings(ctx context.Context) bool {
	if c.prefs == nil {
		return true
	}
	prefs, err := c.prefs.Preferences(ctx)
	if err != nil {
		return true
	}
	return prefs.ShowContextWarnings
}

// enterStep performs the side effects of arriving at a step: completion
// tracking re-baselines, declared host actions run in order, and an
// automatic viewport capture is scheduled if the step asks for one.
func (c *Coordinator) enterStep(payload domain.StepPayload) {
	c.observer.ResetTracking()
	if c.runner != nil && len(payload.FusionActions) > 0 {
		c.runner.Execute(payload.FusionActions)
	}

	if payload.CaptureViewport {
		index := payload.CurrentIndex
		path := filepath.Join(c.captureDir, fmt.Sprintf("guidekit_step_%s.png", payload.StepID))
		time.AfterFunc(captureSettleDelay, func() {
			c.post(func() { c.captureTo(path, index) })
		})
	}
}

func (c *Coordinator) captureTo(path string, stepIndex int) {
	if err := c.runner.viewport.SaveViewportImage(path); err != nil {
		// Capture is best effort; a failure produces no message at all.
		c.logger.Debug("viewport capture failed", "path", path, "err", err)
		return
	}
	c.notifier.ViewportCaptured(path, stepIndex)
}

// CaptureViewport saves the current viewport to filename under the capture
// directory and returns the full path.
func (c *Coordinator) CaptureViewport(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("capture filename is required")
	}
	path := filepath.Join(c.captureDir, filepath.Base(filename))
	if err := c.runner.viewport.SaveViewportImage(path); err != nil {
		return "", fmt.Errorf("save viewport image: %w", err)
	}
	return path, nil
}

// HandleContextMismatch is the policy-gated escalation alongside the
// always-proceed warning path. OFF warns only; ASK defers to the palette to
// offer the redirect; ON launches the walkthrough immediately.
func (c *Coordinator) HandleContextMismatch(ctx context.Context, details domain.MismatchDetails, targetIndex int) {
	if details.Matched {
		return
	}

	mode := domain.GuidanceAsk
	if c.prefs != nil {
		if prefs, err := c.prefs.Preferences(ctx); err == nil {
			mode = prefs.AIGuidanceMode
		}
	}

	switch mode {
	case domain.GuidanceOff:
		if c.showWarnings(ctx) {
			c.notifier.ContextWarning(details, targetIndex)
		}
	case domain.GuidanceAsk:
		c.notifier.RedirectOffer(details, targetIndex)
	case domain.GuidanceOn:
		c.StartRedirect(details, targetIndex)
	}
}

// StartRedirect emits a redirect walkthrough step for the first mismatch and
// polls at the fast cadence; when the user reaches the required context the
// walkthrough completes and the cursor advances to the original target.
func (c *Coordinator) StartRedirect(details domain.MismatchDetails, targetIndex int) {
	rs := redirect.Resolve(details, targetIndex)
	if rs == nil {
		return
	}

	c.pending = &pendingRedirect{target: targetIndex, req: details.Required}
	c.metrics.RedirectsStarted.Inc()
	c.notifier.RedirectStarted(rs)

	c.poller.Start(details.Required, poller.RedirectInterval, func(domain.ContextSnapshot) {
		c.finishRedirect(targetIndex)
	}, nil)
}

func (c *Coordinator) finishRedirect(targetIndex int) {
	// The delivery may have been queued behind a navigation that cleared or
	// replaced the redirect; a stale completion must not move the cursor.
	if c.pending == nil || c.pending.target != targetIndex {
		return
	}
	c.pending = nil
	c.metrics.RedirectsResolved.Inc()
	c.notifier.RedirectComplete(targetIndex)

	payload, ok := c.state.GoTo(targetIndex)
	if !ok {
		return
	}
	c.enterStep(payload)
	// Async path: nobody is waiting on a response, so the step change is
	// pushed to the palette directly.
	c.notifier.StepChanged(payload)
}

// SkipRedirect abandons the active walkthrough and forces the cursor to the
// originally intended step regardless of context.
func (c *Coordinator) SkipRedirect() (domain.StepPayload, bool) {
	c.poller.Stop()

	if c.pending == nil {
		// Nothing to skip; report the current step without re-running its
		// entry actions.
		return c.state.Current()
	}
	target := c.pending.target
	c.pending = nil
	c.metrics.RedirectsSkipped.Inc()

	payload, ok := c.state.GoTo(target)
	if !ok {
		return domain.StepPayload{}, false
	}
	c.enterStep(payload)
	return payload, true
}

// SkipRedirectHelp dismisses the walkthrough UI, rechecks the live context
// once, and proceeds to the target either way. targetIndex < 0 means "the
// pending redirect's target".
func (c *Coordinator) SkipRedirectHelp(ctx context.Context, targetIndex int) (domain.StepPayload, error) {
	if targetIndex < 0 {
		if c.pending != nil {
			targetIndex = c.pending.target
		} else {
			targetIndex = c.state.Index()
		}
	}
	c.poller.Stop()
	c.pending = nil

	t := c.state.Tutorial()
	if t == nil {
		return domain.StepPayload{}, domain.ErrNoTutorial
	}
	if step, ok := t.Step(targetIndex); ok && !step.Requires.IsZero() {
		snap := c.snapshots.Current()
		if hostctx.Matches(snap, step.Requires) {
			c.notifier.RedirectComplete(targetIndex)
		}
	}
	return c.Navigate(ctx, "goToStep", targetIndex)
}

// PokeContext asks any running poll to re-evaluate immediately, used when
// the host reports a workspace switch.
func (c *Coordinator) PokeContext() {
	c.poller.Poke()
}

// Shutdown stops background work. Safe to call more than once.
func (c *Coordinator) Shutdown() {
	c.poller.Stop()
	c.pending = nil
}

type nopNotifier struct{}

func (nopNotifier) ContextWarning(domain.MismatchDetails, int) {}
func (nopNotifier) ContextResolved(domain.ContextSnapshot) {}
func (nopNotifier) RedirectOffer(domain.MismatchDetails, int) {}
func (nopNotifier) RedirectStarted(*domain.RedirectStep) {}
func (nopNotifier) RedirectComplete(int) {}
func (nopNotifier) StepChanged(domain.StepPayload) {}
func (nopNotifier) ViewportCaptured(string, int) {}
