package poller_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidekit/guidekit/internal/hostctx"
	"github.com/guidekit/guidekit/internal/hosttest"
	"github.com/guidekit/guidekit/internal/poller"
	"github.com/guidekit/guidekit/pkg/domain"
)

// recorder is a minimal interactive loop stand-in that just runs posted
// callbacks in order.
type recorder struct {
	mu    sync.Mutex
	calls []func()
}

func (r *recorder) post(fn func()) {
	r.mu.Lock()
	r.calls = append(r.calls, fn)
	r.mu.Unlock()
	fn()
}

func newPoller(host *hosttest.Host) *poller.Poller {
	snapshots := hostctx.NewProvider(host, nil)
	rec := &recorder{}
	return poller.New(snapshots, rec.post, nil, nil)
}

func TestPoller_MatchesOnce(t *testing.T) {
	host := hosttest.New()
	p := newPoller(host)

	var matched atomic.Int32
	done := make(chan domain.ContextSnapshot, 1)
	p.Start(domain.Requirement{Environment: "Sketch"}, 5*time.Millisecond, func(snap domain.ContextSnapshot) {
		matched.Add(1)
		done <- snap
	}, nil)
	assert.True(t, p.Active())

	host.SetWorkspace("FusionSolidEnvironment", "Design")
	host.EnterSketch("Sketch1")

	select {
	case snap := <-done:
		assert.Equal(t, domain.EnvironmentSketch, snap.Environment)
	case <-time.After(2 * time.Second):
		t.Fatal("poll never matched")
	}

	// One-shot: no further ticks after the match.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), matched.Load())
	assert.False(t, p.Active())
}

func TestPoller_SupersededPollNeverFires(t *testing.T) {
	host := hosttest.New()
	p := newPoller(host)

	var first atomic.Int32
	// The first poll's requirement is already satisfied, but with a long
	// interval it will not have ticked before being superseded.
	p.Start(domain.Requirement{Workspace: "Design"}, time.Hour, func(domain.ContextSnapshot) {
		first.Add(1)
	}, nil)

	second := make(chan struct{}, 1)
	p.Start(domain.Requirement{Workspace: "Design"}, time.Millisecond, func(domain.ContextSnapshot) {
		second <- struct{}{}
	}, nil)

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("second poll never matched")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "superseded poll must never fire")
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	host := hosttest.New()
	p := newPoller(host)

	p.Stop()
	p.Stop()

	fired := make(chan struct{}, 1)
	p.Start(domain.Requirement{Workspace: "Render"}, 2*time.Millisecond, func(domain.ContextSnapshot) {
		fired <- struct{}{}
	}, nil)
	require.True(t, p.Active())

	p.Stop()
	assert.False(t, p.Active())
	p.Stop()

	host.SetWorkspace("FusionRenderEnvironment", "Render")
	select {
	case <-fired:
		t.Fatal("stopped poll fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPoller_StopDropsQueuedDelivery(t *testing.T) {
	host := hosttest.New()
	snapshots := hostctx.NewProvider(host, nil)

	// A queue-only loop stand-in: posted callbacks are held until drained,
	// like deliveries waiting behind other work on the interactive loop.
	var mu sync.Mutex
	var queued []func()
	post := func(fn func()) {
		mu.Lock()
		queued = append(queued, fn)
		mu.Unlock()
	}

	p := poller.New(snapshots, post, nil, nil)

	var fired atomic.Int32
	host.SetWorkspace("FusionSolidEnvironment", "Design")
	p.Start(domain.Requirement{Workspace: "Design"}, time.Millisecond, func(domain.ContextSnapshot) {
		fired.Add(1)
	}, nil)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(queued) > 0
	}, 2*time.Second, time.Millisecond)

	// Stop lands before the loop drains the delivery.
	p.Stop()

	mu.Lock()
	pending := append([]func(){}, queued...)
	mu.Unlock()
	for _, fn := range pending {
		fn()
	}

	assert.Equal(t, int32(0), fired.Load(), "match delivered after Stop")
}

func TestPoller_OnTick(t *testing.T) {
	host := hosttest.New()
	p := newPoller(host)
	defer p.Stop()

	var ticks atomic.Int32
	p.Start(domain.Requirement{Workspace: "Render"}, 2*time.Millisecond, func(domain.ContextSnapshot) {}, func(domain.ContextSnapshot) {
		ticks.Add(1)
	})

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_PokeForcesImmediateCheck(t *testing.T) {
	host := hosttest.New()
	p := newPoller(host)

	done := make(chan struct{}, 1)
	p.Start(domain.Requirement{Workspace: "Design"}, time.Hour, func(domain.ContextSnapshot) {
		done <- struct{}{}
	}, nil)

	p.Poke()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poke did not trigger a re-evaluation")
	}
}
