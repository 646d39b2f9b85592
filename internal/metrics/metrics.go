// Package metrics defines the engine's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the counters the engine components report into.
type Set struct {
	CompletionEvents  *prometheus.CounterVec
	ContextWarnings   prometheus.Counter
	ContextResolved   prometheus.Counter
	RedirectsStarted  prometheus.Counter
	RedirectsResolved prometheus.Counter
	RedirectsSkipped  prometheus.Counter
	PollsStarted      prometheus.Counter
	PollsSuperseded   prometheus.Counter
	Navigations       *prometheus.CounterVec
}

// New creates and registers the instrument set on reg.
func New(reg prometheus.Registerer) *Set {
	s := &Set{
		CompletionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "completion_events_total",
			Help: "Completion events emitted, by event type.",
		}, []string{"event_type"}),
		ContextWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "context_warnings_total",
			Help: "Non-blocking context mismatch warnings sent to the palette.",
		}),
		ContextResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "context_resolved_total",
			Help: "Warnings auto-dismissed after the user fixed the context.",
		}),
		RedirectsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "redirects_started_total",
			Help: "Active redirect walkthroughs started.",
		}),
		RedirectsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "redirects_resolved_total",
			Help: "Redirect walkthroughs completed by reaching the target context.",
		}),
		RedirectsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "redirects_skipped_total",
			Help: "Redirect walkthroughs skipped by the user.",
		}),
		PollsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "context_polls_started_total",
			Help: "Context polls started.",
		}),
		PollsSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "context_polls_superseded_total",
			Help: "Context polls stopped because a newer poll replaced them.",
		}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guidekit", Name: "navigations_total",
			Help: "Navigation requests, by direction.",
		}, []string{"direction"}),
	}
	reg.MustRegister(
		s.CompletionEvents, s.ContextWarnings, s.ContextResolved,
		s.RedirectsStarted, s.RedirectsResolved, s.RedirectsSkipped,
		s.PollsStarted, s.PollsSuperseded, s.Navigations,
	)
	return s
}

// NewNop returns a set registered on a throwaway registry, for tests and
// callers that do not expose metrics.
func NewNop() *Set {
	return New(prometheus.NewRegistry())
}
