// Package observer subscribes to host command lifecycle events, classifies
// what the user actually did into semantic completion events, and fans them
// out to registered callbacks for checklist and QC evaluation.
package observer

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/internal/metrics"
	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

// Observer watches the host's command-starting and command-terminated
// channels. Start/Stop are idempotent. Event dispatch is synchronous on the
// thread the host delivered the triggering event on; each callback is
// isolated, so one failing callback never starves the rest.
type Observer struct {
	host    ports.Host
	logger  *slog.Logger
	metrics *metrics.Set

	mu              sync.Mutex
	active          bool
	unsubStart      func()
	unsubTerm       func()
	lastTimelineLen int
	wasInSketch     bool
	callbacks       []func(domain.CompletionEvent)
}

// Option configures the Observer.
type Option func(*Observer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Observer) { o.logger = logger }
}

// WithMetrics sets the instrument set.
func WithMetrics(m *metrics.Set) Option {
	return func(o *Observer) { o.metrics = m }
}

// New creates an observer for the given host.
func New(host ports.Host, opts ...Option) *Observer {
	o := &Observer{
		host:    host,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start subscribes to the host event channels. No-op when already active.
func (o *Observer) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active {
		return nil
	}

	unsubStart, err := o.host.SubscribeCommandStarting(o.onCommandStarting)
	if err != nil {
		return err
	}
	unsubTerm, err := o.host.SubscribeCommandTerminated(o.onCommandTerminated)
	if err != nil {
		unsubStart()
		return err
	}

	o.unsubStart = unsubStart
	o.unsubTerm = unsubTerm
	o.lastTimelineLen = o.timelineLen()
	o.wasInSketch = o.inSketch()
	o.active = true
	o.logger.Debug("completion observer started", "timeline_baseline", o.lastTimelineLen)
	return nil
}

// Stop unsubscribes from both channels and clears registered callbacks.
// Idempotent.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return
	}
	o.active = false
	if o.unsubStart != nil {
		o.unsubStart()
		o.unsubStart = nil
	}
	if o.unsubTerm != nil {
		o.unsubTerm()
		o.unsubTerm = nil
	}
	o.callbacks = nil
}

// AddCallback registers a completion event callback. Callbacks run in
// registration order.
func (o *Observer) AddCallback(fn func(domain.CompletionEvent)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.callbacks = append(o.callbacks, fn)
}

// ResetTracking re-baselines the observed timeline length to the host's
// current length. Called on every step entry so feature growth is measured
// relative to the step, not the session.
func (o *Observer) ResetTracking() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastTimelineLen = o.timelineLen()
}

func (o *Observer) onCommandStarting(commandID string) {
	// The event always fires; classification only affects the label.
	o.emit(domain.CompletionEvent{
		EventType:  domain.EventCommandStarted,
		EntityName: commandID,
		AdditionalInfo: map[string]any{
			"commandId": commandID,
			"label":     CommandLabel(commandID),
		},
	})
}

func (o *Observer) onCommandTerminated(commandID string) {
	o.mu.Lock()
	entries, err := o.host.Timeline()
	if err != nil {
		// Host-transient: no design open, nothing to classify.
		o.mu.Unlock()
		o.checkSketchTransition()
		return
	}

	last := o.lastTimelineLen
	grown := len(entries) > last
	var fresh []ports.TimelineEntry
	if grown {
		fresh = entries[last:]
		o.lastTimelineLen = len(entries)
	}
	o.mu.Unlock()

	if grown {
		for i, entry := range fresh {
			o.emit(domain.CompletionEvent{
				EventType:  classifyEntity(entry.EntityType),
				EntityName: entry.EntityName,
				EntityID:   strconv.Itoa(last + i),
				AdditionalInfo: map[string]any{
					"name":    entry.EntityName,
					"healthy": entry.Healthy,
				},
			})
		}
	} else if KnownCommand(commandID) {
		// Pure sketch-entity tools leave no timeline entry of their own,
		// but a recognized command finishing is still a completed action.
		o.emit(domain.CompletionEvent{
			EventType:  domain.EventCommandEnded,
			EntityName: commandID,
			AdditionalInfo: map[string]any{
				"commandId": commandID,
				"label":     CommandLabel(commandID),
			},
		})
	}

	o.checkSketchTransition()
}

// checkSketchTransition emits sketch_finished when an edit session that was
// open at the previous event has ended.
func (o *Observer) checkSketchTransition() {
	now := o.inSketch()

	o.mu.Lock()
	was := o.wasInSketch
	o.wasInSketch = now
	o.mu.Unlock()

	if was && !now {
		o.emit(domain.CompletionEvent{
			EventType:      domain.EventSketchFinished,
			EntityName:     "Sketch",
			AdditionalInfo: map[string]any{"action": "finished"},
		})
	}
}

// emit dispatches to all callbacks in registration order. A panicking
// callback is caught, logged and skipped.
func (o *Observer) emit(event domain.CompletionEvent) {
	o.metrics.CompletionEvents.WithLabelValues(string(event.EventType)).Inc()

	o.mu.Lock()
	callbacks := make([]func(domain.CompletionEvent), len(o.callbacks))
	copy(callbacks, o.callbacks)
	o.mu.Unlock()

	for _, fn := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Warn("completion callback panicked", "event", event.EventType, "panic", r)
				}
			}()
			fn(event)
		}()
	}
}

func (o *Observer) timelineLen() int {
	entries, err := o.host.Timeline()
	if err != nil {
		return 0
	}
	return len(entries)
}

func (o *Observer) inSketch() bool {
	editType, err := o.host.ActiveEditObjectType()
	return err == nil && editType == "Sketch"
}
