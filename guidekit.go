package guidekit

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/guidekit/guidekit/internal/assets"
	"github.com/guidekit/guidekit/internal/bridge"
	"github.com/guidekit/guidekit/internal/guide"
	"github.com/guidekit/guidekit/internal/hostctx"
	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/internal/metrics"
	"github.com/guidekit/guidekit/internal/observer"
	"github.com/guidekit/guidekit/internal/poller"
	"github.com/guidekit/guidekit/internal/prefs"
	"github.com/guidekit/guidekit/internal/tutorial"
	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

// Version is the engine version reported by the CLI.
var Version = "0.3.0"

// App is the high-level entry point for the GuideKit engine. It owns every
// component and a single dispatch loop that plays the role of the host's
// interactive thread: all tutorial and navigation state is mutated there.
type App struct {
	host   ports.Host
	logger *slog.Logger

	registry  *prometheus.Registry
	metrics   *metrics.Set
	snapshots *hostctx.Provider
	observer  *observer.Observer
	poller    *poller.Poller
	coord     *guide.Coordinator
	bridge    *bridge.Bridge
	prefs     ports.PreferenceStore
	source    ports.TutorialSource
	assets    *assets.Manager

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	unsubWS   func()
}

// Option configures an App.
type Option func(*App)

// WithLogger sets a structured logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithPreferenceStore replaces the default file-backed preference store.
func WithPreferenceStore(store ports.PreferenceStore) Option {
	return func(a *App) {
		a.prefs = store
	}
}

// WithTutorialSource replaces the default directory loader.
func WithTutorialSource(source ports.TutorialSource) Option {
	return func(a *App) {
		a.source = source
	}
}

// WithAssetManager serves palette reference images from a directory.
func WithAssetManager(am *assets.Manager) Option {
	return func(a *App) {
		a.assets = am
	}
}

// WithRegistry uses an existing prometheus registry instead of a fresh one.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// New wires the engine around a host. tutorialDir is where tutorial
// documents live; it also anchors the default preference file.
func New(host ports.Host, tutorialDir string, opts ...Option) (*App, error) {
	if host == nil {
		return nil, fmt.Errorf("host is required")
	}

	a := &App{
		host:  host,
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	a.metrics = metrics.New(a.registry)

	if a.source == nil {
		if tutorialDir == "" {
			return nil, fmt.Errorf("tutorialDir is required when no custom source is provided")
		}
		abs, err := filepath.Abs(tutorialDir)
		if err != nil {
			return nil, fmt.Errorf("invalid tutorial dir: %w", err)
		}
		a.source = tutorial.NewDirSource(abs, a.logger)
	}
	if a.prefs == nil {
		a.prefs = prefs.NewFileStore(tutorialDir, a.logger)
	}

	a.snapshots = hostctx.NewProvider(host, a.logger)
	a.observer = observer.New(host, observer.WithLogger(a.logger), observer.WithMetrics(a.metrics))
	a.poller = poller.New(a.snapshots, a.Post, a.logger, a.metrics)

	runner := guide.NewRunner(host, a.logger)
	a.coord = guide.New(guide.Config{
		Source:    a.source,
		Snapshots: a.snapshots,
		Poller:    a.poller,
		Observer:  a.observer,
		Prefs:     a.prefs,
		Runner:    runner,
		Post:      a.Post,
		Logger:    a.logger,
		Metrics:   a.metrics,
	})
	a.bridge = bridge.New(a.coord, a.observer, a.snapshots, a.prefs, a.logger)
	a.coord.SetNotifier(a.bridge)

	if err := a.observer.Start(); err != nil {
		return nil, fmt.Errorf("start completion observer: %w", err)
	}
	a.observer.AddCallback(a.bridge.ForwardCompletion)

	// A workspace switch should re-evaluate any pending context poll right
	// away instead of waiting out the interval.
	unsub, err := host.SubscribeWorkspaceActivated(func() {
		a.coord.PokeContext()
	})
	if err != nil {
		a.logger.Warn("workspace activation events unavailable", "err", err)
	} else {
		a.unsubWS = unsub
	}

	go a.loop()
	return a, nil
}

// loop is the engine's interactive thread.
func (a *App) loop() {
	for {
		select {
		case <-a.done:
			return
		case fn := <-a.tasks:
			fn()
		}
	}
}

// Post marshals fn onto the interactive loop. It never blocks the caller
// beyond the channel's buffer; after Close it is a no-op.
func (a *App) Post(fn func()) {
	select {
	case a.tasks <- fn:
	case <-a.done:
	}
}

// HandleMessage dispatches one raw palette message on the interactive loop.
func (a *App) HandleMessage(raw []byte) {
	msg := append([]byte(nil), raw...)
	a.Post(func() {
		a.bridge.Handle(context.Background(), msg)
	})
}

// AttachPalette makes sender the active palette connection.
func (a *App) AttachPalette(sender ports.PaletteSender) {
	a.Post(func() {
		a.bridge.AttachSender(sender)
	})
}

// DetachPalette removes sender if it is still the active connection.
func (a *App) DetachPalette(sender ports.PaletteSender) {
	a.Post(func() {
		a.bridge.DetachSender(sender)
	})
}

// LoadTutorial loads a tutorial by id on the interactive loop and returns
// the first step's payload.
func (a *App) LoadTutorial(ctx context.Context, id string) (domain.StepPayload, error) {
	type result struct {
		payload domain.StepPayload
		err     error
	}
	ch := make(chan result, 1)
	a.Post(func() {
		payload, err := a.coord.LoadTutorial(ctx, id)
		ch <- result{payload, err}
	})
	select {
	case r := <-ch:
		return r.payload, r.err
	case <-ctx.Done():
		return domain.StepPayload{}, ctx.Err()
	case <-a.done:
		return domain.StepPayload{}, fmt.Errorf("engine closed")
	}
}

// WatchTutorials reloads the active tutorial when its source file changes,
// pushing the reloaded first step to the palette. Only directory-backed
// sources can be watched. Watching stops when ctx is cancelled.
func (a *App) WatchTutorials(ctx context.Context) error {
	ds, ok := a.source.(*tutorial.DirSource)
	if !ok {
		return fmt.Errorf("tutorial source does not support watching")
	}
	ch, err := tutorial.NewWatcher(ds.Dir(), a.logger).Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for id := range ch {
			id := id
			a.Post(func() {
				active := a.coord.State().Tutorial()
				if active == nil || active.TutorialID != id {
					return
				}
				payload, err := a.coord.LoadTutorial(ctx, id)
				if err != nil {
					a.logger.Warn("tutorial reload failed", "tutorialId", id, "err", err)
					return
				}
				a.logger.Info("tutorial reloaded", "tutorialId", id)
				a.bridge.StepChanged(payload)
			})
		}
	}()
	return nil
}

// Registry exposes the prometheus registry for the transport's /metrics.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Assets returns the configured asset manager, or nil.
func (a *App) Assets() *assets.Manager {
	return a.assets
}

// Logger returns the engine's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close stops background work and the dispatch loop. Safe to call twice.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.unsubWS != nil {
			a.unsubWS()
		}
		a.coord.Shutdown()
		a.observer.Stop()
		close(a.done)
	})
}
