package guide_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidekit/guidekit/internal/guide"
	"github.com/guidekit/guidekit/internal/hostctx"
	"github.com/guidekit/guidekit/internal/hosttest"
	"github.com/guidekit/guidekit/internal/observer"
	"github.com/guidekit/guidekit/internal/poller"
	"github.com/guidekit/guidekit/pkg/domain"
)

// loop is a minimal stand-in for the engine's interactive loop: every
// coordinator call and every poller handoff runs on one goroutine.
type loop struct {
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
}

func newLoop(t *testing.T) *loop {
	t.Helper()
	l := &loop{tasks: make(chan func(), 16), quit: make(chan struct{})}
	go func() {
		for {
			select {
			case fn := <-l.tasks:
				fn()
			case <-l.quit:
				return
			}
		}
	}()
	t.Cleanup(func() { l.once.Do(func() { close(l.quit) }) })
	return l
}

func (l *loop) post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.quit:
	}
}

// call runs fn on the loop and waits for it, so tests never touch
// coordinator state from their own goroutine.
func (l *loop) call(fn func()) {
	done := make(chan struct{})
	l.post(func() {
		fn()
		close(done)
	})
	<-done
}

type notifierRecorder struct {
	mu        sync.Mutex
	warnings  []domain.MismatchDetails
	warnIdx   []int
	resolved  []domain.ContextSnapshot
	offers    []domain.MismatchDetails
	started   []*domain.RedirectStep
	completed []int
	changed   []domain.StepPayload
	captured  []string
}

func (r *notifierRecorder) ContextWarning(d domain.MismatchDetails, target int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, d)
	r.warnIdx = append(r.warnIdx, target)
}

func (r *notifierRecorder) ContextResolved(s domain.ContextSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = append(r.resolved, s)
}

func (r *notifierRecorder) RedirectOffer(d domain.MismatchDetails, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers = append(r.offers, d)
}

func (r *notifierRecorder) RedirectStarted(rs *domain.RedirectStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, rs)
}

func (r *notifierRecorder) RedirectComplete(target int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, target)
}

func (r *notifierRecorder) StepChanged(p domain.StepPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, p)
}

func (r *notifierRecorder) ViewportCaptured(path string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captured = append(r.captured, path)
}

// recorded is a copy of the recorder's state safe to inspect off-lock.
type recorded struct {
	warnings  []domain.MismatchDetails
	warnIdx   []int
	resolved  []domain.ContextSnapshot
	offers    []domain.MismatchDetails
	started   []*domain.RedirectStep
	completed []int
	changed   []domain.StepPayload
	captured  []string
}

func (r *notifierRecorder) snapshot() recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return recorded{
		warnings:  append([]domain.MismatchDetails(nil), r.warnings...),
		warnIdx:   append([]int(nil), r.warnIdx...),
		resolved:  append([]domain.ContextSnapshot(nil), r.resolved...),
		offers:    append([]domain.MismatchDetails(nil), r.offers...),
		started:   append([]*domain.RedirectStep(nil), r.started...),
		completed: append([]int(nil), r.completed...),
		changed:   append([]domain.StepPayload(nil), r.changed...),
		captured:  append([]string(nil), r.captured...),
	}
}

type fixedPrefs struct {
	prefs domain.GuidancePreference
}

func (f *fixedPrefs) Preferences(context.Context) (domain.GuidancePreference, error) {
	return f.prefs, nil
}
func (f *fixedPrefs) SetGuidanceMode(_ context.Context, m domain.GuidanceMode) error {
	f.prefs.AIGuidanceMode = m
	return nil
}
func (f *fixedPrefs) MarkFirstRunComplete(context.Context) error {
	f.prefs.FirstRunCompleted = true
	return nil
}
func (f *fixedPrefs) SetShowContextWarnings(_ context.Context, show bool) error {
	f.prefs.ShowContextWarnings = show
	return nil
}

type fixture struct {
	coord    *guide.Coordinator
	host     *hosttest.Host
	rec      *notifierRecorder
	prefs    *fixedPrefs
	loop     *loop
	captures string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	host := hosttest.New()
	l := newLoop(t)
	rec := &notifierRecorder{}
	prefStore := &fixedPrefs{prefs: domain.DefaultPreferences()}

	provider := hostctx.NewProvider(host, nil)
	p := poller.New(provider, l.post, nil, nil)
	obs := observer.New(host)
	captures := t.TempDir()

	coord := guide.New(guide.Config{
		Snapshots:  provider,
		Poller:     p,
		Observer:   obs,
		Prefs:      prefStore,
		Runner:     guide.NewRunner(host, nil),
		Notifier:   rec,
		Post:       l.post,
		CaptureDir: captures,
	})
	t.Cleanup(func() { l.call(coord.Shutdown) })

	return &fixture{coord: coord, host: host, rec: rec, prefs: prefStore, loop: l, captures: captures}
}

func sketchTutorial() *domain.Tutorial {
	return &domain.Tutorial{
		TutorialID: "mug",
		Title:      "Model a Mug",
		Steps: []domain.TutorialStep{
			{StepID: "s1", Title: "Open", Instruction: "Open a new design."},
			{
				StepID:      "s2",
				Title:       "Sketch the base",
				Instruction: "Draw the base circle.",
				Requires:    domain.Requirement{Environment: "Sketch"},
			},
			{StepID: "s3", Title: "Extrude", Instruction: "Extrude the profile."},
		},
	}
}

// enterSketchEnv puts the fake host into a state the snapshot provider
// reads as the Sketch environment.
func enterSketchEnv(h *hosttest.Host) {
	h.SetWorkspace("FusionSolidEnvironment", "Design")
	h.EnterSketch("Sketch1")
}

func TestNavigate_MismatchWarnsButStillMoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)
	})

	var payload domain.StepPayload
	f.loop.call(func() {
		var err error
		payload, err = f.coord.Navigate(ctx, "goToStep", 1)
		require.NoError(t, err)
	})

	// The move always proceeds.
	assert.Equal(t, 1, payload.CurrentIndex)
	assert.Equal(t, "s2", payload.StepID)

	got := f.rec.snapshot()
	require.Len(t, got.warnings, 1)
	require.NotEmpty(t, got.warnings[0].Mismatches)
	assert.Equal(t, domain.MismatchEnvironment, got.warnings[0].Mismatches[0].Type)
	assert.Equal(t, []int{1}, got.warnIdx)

	// A resolution watch is now running; fixing the context fires it once.
	enterSketchEnv(f.host)
	f.loop.call(f.coord.PokeContext)
	assert.Eventually(t, func() bool {
		return len(f.rec.snapshot().resolved) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, domain.EnvironmentSketch, f.rec.snapshot().resolved[0].Environment)
}

func TestNavigate_MatchingContextIsSilent(t *testing.T) {
	f := newFixture(t)
	enterSketchEnv(f.host)

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)
		_, err = f.coord.Navigate(context.Background(), "goToStep", 1)
		require.NoError(t, err)
	})

	assert.Empty(t, f.rec.snapshot().warnings)
}

func TestNavigate_ClampsAtBothEnds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)

		p, err := f.coord.Navigate(ctx, "prev", 0)
		require.NoError(t, err)
		assert.Equal(t, 0, p.CurrentIndex)

		for i := 0; i < 5; i++ {
			p, err = f.coord.Navigate(ctx, "next", 0)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, p.CurrentIndex)
	})
}

func TestNavigate_GoToStepOutOfRange(t *testing.T) {
	f := newFixture(t)

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)

		_, err = f.coord.Navigate(context.Background(), "goToStep", 7)
		assert.ErrorIs(t, err, domain.ErrInvalidStepIndex)
		_, err = f.coord.Navigate(context.Background(), "goToStep", -1)
		assert.ErrorIs(t, err, domain.ErrInvalidStepIndex)
		assert.Equal(t, 0, f.coord.State().Index())
	})
}

func TestNavigate_NoTutorialLoaded(t *testing.T) {
	f := newFixture(t)

	f.loop.call(func() {
		_, err := f.coord.Navigate(context.Background(), "next", 0)
		assert.ErrorIs(t, err, domain.ErrNoTutorial)
	})
}

func TestNavigate_WarningSuppressedByPreference(t *testing.T) {
	f := newFixture(t)
	f.prefs.prefs.ShowContextWarnings = false

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)
		_, err = f.coord.Navigate(context.Background(), "goToStep", 1)
		require.NoError(t, err)
	})

	// No warning message, but the resolution watch still runs.
	assert.Empty(t, f.rec.snapshot().warnings)
	enterSketchEnv(f.host)
	f.loop.call(f.coord.PokeContext)
	assert.Eventually(t, func() bool {
		return len(f.rec.snapshot().resolved) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandleContextMismatch_ModeGating(t *testing.T) {
	mismatch := func(f *fixture) domain.MismatchDetails {
		return hostctx.DescribeMismatch(hostctx.NewProvider(f.host, nil).Current(),
			domain.Requirement{Environment: "Sketch"})
	}

	t.Run("off warns only", func(t *testing.T) {
		f := newFixture(t)
		f.prefs.prefs.AIGuidanceMode = domain.GuidanceOff
		f.loop.call(func() {
			f.coord.HandleContextMismatch(context.Background(), mismatch(f), 1)
		})
		got := f.rec.snapshot()
		assert.Len(t, got.warnings, 1)
		assert.Empty(t, got.offers)
		assert.Empty(t, got.started)
	})

	t.Run("ask offers", func(t *testing.T) {
		f := newFixture(t)
		f.prefs.prefs.AIGuidanceMode = domain.GuidanceAsk
		f.loop.call(func() {
			f.coord.HandleContextMismatch(context.Background(), mismatch(f), 1)
		})
		got := f.rec.snapshot()
		assert.Len(t, got.offers, 1)
		assert.Empty(t, got.started)
	})

	t.Run("on starts walkthrough", func(t *testing.T) {
		f := newFixture(t)
		f.prefs.prefs.AIGuidanceMode = domain.GuidanceOn
		f.loop.call(func() {
			_, err := f.coord.LoadTutorialData(sketchTutorial())
			require.NoError(t, err)
			f.coord.HandleContextMismatch(context.Background(), mismatch(f), 1)
		})
		got := f.rec.snapshot()
		require.Len(t, got.started, 1)
		assert.True(t, got.started[0].IsRedirect)
		assert.Equal(t, 1, got.started[0].OriginalStepIndex)
	})

	t.Run("matched is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.loop.call(func() {
			f.coord.HandleContextMismatch(context.Background(), domain.MismatchDetails{Matched: true}, 1)
		})
		got := f.rec.snapshot()
		assert.Empty(t, got.warnings)
		assert.Empty(t, got.offers)
	})
}

func TestStartRedirect_CompletesWhenContextReached(t *testing.T) {
	f := newFixture(t)

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)

		provider := hostctx.NewProvider(f.host, nil)
		details := hostctx.DescribeMismatch(provider.Current(), domain.Requirement{Environment: "Sketch"})
		require.False(t, details.Matched)
		f.coord.StartRedirect(details, 1)
	})
	require.Len(t, f.rec.snapshot().started, 1)

	enterSketchEnv(f.host)
	f.loop.call(f.coord.PokeContext)

	assert.Eventually(t, func() bool {
		return len(f.rec.snapshot().completed) == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := f.rec.snapshot()
	assert.Equal(t, []int{1}, got.completed)
	require.Len(t, got.changed, 1)
	assert.Equal(t, 1, got.changed[0].CurrentIndex)

	f.loop.call(func() {
		assert.Equal(t, 1, f.coord.State().Index())
	})
}

func TestSkipRedirect_ForcesTarget(t *testing.T) {
	f := newFixture(t)

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)

		provider := hostctx.NewProvider(f.host, nil)
		details := hostctx.DescribeMismatch(provider.Current(), domain.Requirement{Environment: "Sketch"})
		f.coord.StartRedirect(details, 1)

		payload, ok := f.coord.SkipRedirect()
		require.True(t, ok)
		assert.Equal(t, 1, payload.CurrentIndex)
		assert.Equal(t, 1, f.coord.State().Index())
	})
}

func TestNavigate_DropsStaleRedirectCompletion(t *testing.T) {
	host := hosttest.New()
	rec := &notifierRecorder{}
	provider := hostctx.NewProvider(host, nil)

	// Posted callbacks are held until drained, like a redirect completion
	// queued behind other work on the interactive loop.
	var mu sync.Mutex
	var queued []func()
	post := func(fn func()) {
		mu.Lock()
		queued = append(queued, fn)
		mu.Unlock()
	}

	coord := guide.New(guide.Config{
		Snapshots: provider,
		Poller:    poller.New(provider, post, nil, nil),
		Observer:  observer.New(host),
		Prefs:     &fixedPrefs{prefs: domain.DefaultPreferences()},
		Runner:    guide.NewRunner(host, nil),
		Notifier:  rec,
		Post:      post,
	})
	t.Cleanup(coord.Shutdown)

	_, err := coord.LoadTutorialData(sketchTutorial())
	require.NoError(t, err)

	details := hostctx.DescribeMismatch(provider.Current(), domain.Requirement{Environment: "Sketch"})
	require.False(t, details.Matched)
	coord.StartRedirect(details, 1)

	enterSketchEnv(host)
	coord.PokeContext()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(queued) > 0
	}, 2*time.Second, time.Millisecond)

	// The user navigates away before the queued completion runs.
	_, err = coord.Navigate(context.Background(), "goToStep", 0)
	require.NoError(t, err)

	mu.Lock()
	pending := append([]func(){}, queued...)
	mu.Unlock()
	for _, fn := range pending {
		fn()
	}

	got := rec.snapshot()
	assert.Empty(t, got.completed, "stale completion fired after navigation")
	assert.Empty(t, got.changed)
	assert.Equal(t, 0, coord.State().Index())
}

func TestSkipRedirect_NothingPendingLeavesStepAlone(t *testing.T) {
	f := newFixture(t)

	tut := sketchTutorial()
	tut.Steps[0].FusionActions = []domain.HostAction{{Type: "camera.fit"}}

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(tut)
		require.NoError(t, err)

		payload, ok := f.coord.SkipRedirect()
		require.True(t, ok)
		assert.Equal(t, 0, payload.CurrentIndex)
	})

	// Entry actions ran once on load and must not run again.
	assert.Equal(t, []string{"fit"}, f.host.Calls())
}

func TestSkipRedirectHelp_MatchedContextCompletes(t *testing.T) {
	f := newFixture(t)

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(sketchTutorial())
		require.NoError(t, err)

		provider := hostctx.NewProvider(f.host, nil)
		details := hostctx.DescribeMismatch(provider.Current(), domain.Requirement{Environment: "Sketch"})
		f.coord.StartRedirect(details, 1)
	})

	// The user fixed the context themselves before dismissing the help.
	enterSketchEnv(f.host)

	f.loop.call(func() {
		payload, err := f.coord.SkipRedirectHelp(context.Background(), -1)
		require.NoError(t, err)
		assert.Equal(t, 1, payload.CurrentIndex)
	})

	got := f.rec.snapshot()
	assert.Contains(t, got.completed, 1)
}

func TestEnterStep_RunsDeclaredHostActions(t *testing.T) {
	f := newFixture(t)

	tut := sketchTutorial()
	tut.Steps[0].FusionActions = []domain.HostAction{{Type: "camera.fit"}}

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(tut)
		require.NoError(t, err)
	})

	assert.Contains(t, f.host.Calls(), "fit")
}

func TestCaptureViewport(t *testing.T) {
	f := newFixture(t)

	var path string
	f.loop.call(func() {
		var err error
		path, err = f.coord.CaptureViewport("shot.png")
		require.NoError(t, err)
	})

	assert.Equal(t, filepath.Join(f.captures, "shot.png"), path)
	assert.Contains(t, f.host.Calls(), "capture:"+path)

	f.loop.call(func() {
		_, err := f.coord.CaptureViewport("")
		assert.Error(t, err)
	})
}

func TestAutoCapture_NotifiesWhenStepAsks(t *testing.T) {
	f := newFixture(t)

	tut := sketchTutorial()
	tut.Steps[0].CaptureViewport = true

	f.loop.call(func() {
		_, err := f.coord.LoadTutorialData(tut)
		require.NoError(t, err)
	})

	assert.Eventually(t, func() bool {
		return len(f.rec.snapshot().captured) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, f.rec.snapshot().captured[0], "guidekit_step_s1.png")
}
