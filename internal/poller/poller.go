// Package poller watches host context in the background until a required
// context is reached, then fires a one-shot callback and stops.
package poller

import (
	"log/slog"
	"sync"
	"time"

	"github.com/guidekit/guidekit/internal/hostctx"
	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/internal/metrics"
	"github.com/guidekit/guidekit/pkg/domain"
)

// Poll cadences. Redirect guidance polls faster because the palette is
// actively walking the user through a fix; a passive mismatch warning only
// needs a slow non-blocking nag.
const (
	RedirectInterval = 500 * time.Millisecond
	WarningInterval  = time.Second
)

// Poller re-evaluates the requirement matcher on a background ticker.
// At most one poll is active at a time: starting a new one always supersedes
// the previous one, whose onMatched must then never fire. The tick loop runs
// off the interactive loop; onMatched is handed back through post, the
// engine's cross-context handoff.
type Poller struct {
	snapshots *hostctx.Provider
	post      func(func())
	logger    *slog.Logger
	metrics   *metrics.Set

	mu      sync.Mutex
	gen     int
	active  bool
	stop    chan struct{}
	kick    chan struct{}
	done    sync.WaitGroup
}

// New creates a poller. post marshals callbacks onto the interactive loop.
func New(snapshots *hostctx.Provider, post func(func()), logger *slog.Logger, m *metrics.Set) *Poller {
	if logger == nil {
		logger = logging.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Poller{snapshots: snapshots, post: post, logger: logger, metrics: m}
}

// Start begins polling for req every interval. onMatched fires exactly once,
// on the interactive loop, when a fresh snapshot satisfies req; onTick, when
// non-nil, fires on every evaluation with the current snapshot. Any poll
// already running is stopped first.
func (p *Poller) Start(req domain.Requirement, interval time.Duration, onMatched func(domain.ContextSnapshot), onTick func(domain.ContextSnapshot)) {
	if interval <= 0 {
		interval = RedirectInterval
	}

	if p.Active() {
		p.metrics.PollsSuperseded.Inc()
	}
	p.Stop()

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.active = true
	p.stop = make(chan struct{})
	p.kick = make(chan struct{}, 1)
	stop, kick := p.stop, p.kick
	p.mu.Unlock()

	p.metrics.PollsStarted.Inc()
	p.logger.Debug("context poll started", "interval", interval, "requirement", req)

	p.done.Add(1)
	go p.loop(gen, req, interval, stop, kick, onMatched, onTick)
}

// Stop cancels any running poll. Idempotent and safe from any state; a
// stopped poll's callbacks never fire afterwards, including a match delivery
// already queued on the interactive loop but not yet run.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.gen++ // invalidate in-flight and queued match deliveries
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	close(p.stop)
	p.stop = nil
	p.kick = nil
	p.mu.Unlock()

	p.done.Wait()
}

// Active reports whether a poll is currently running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Poke requests an immediate re-evaluation, used when the host signals a
// workspace change so the poll does not wait out its interval.
func (p *Poller) Poke() {
	p.mu.Lock()
	kick := p.kick
	p.mu.Unlock()
	if kick != nil {
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

func (p *Poller) loop(gen int, req domain.Requirement, interval time.Duration, stop, kick chan struct{}, onMatched, onTick func(domain.ContextSnapshot)) {
	defer p.done.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-kick:
		case <-ticker.C:
		}

		snap := p.snapshots.Current()
		if onTick != nil {
			onTick(snap)
		}
		if !hostctx.Matches(snap, req) {
			continue
		}

		// Matched: flip to not-polling before delivering, and only deliver
		// if this poll has not been superseded in the meantime. The gen is
		// re-checked when the delivery actually runs, because a Stop can
		// land between the post and the interactive loop draining it.
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		p.active = false
		p.stop = nil
		p.kick = nil
		p.mu.Unlock()

		p.logger.Debug("context poll matched", "requirement", req)
		p.post(func() {
			p.mu.Lock()
			stale := p.gen != gen
			p.mu.Unlock()
			if stale {
				return
			}
			onMatched(snap)
		})
		return
	}
}
