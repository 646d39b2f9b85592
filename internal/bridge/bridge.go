// Package bridge translates between the palette's JSON message protocol and
// the engine: inbound actions dispatch into the coordinator and observer,
// unsolicited engine events go out as typed messages.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"

	"github.com/guidekit/guidekit/internal/assets"
	"github.com/guidekit/guidekit/internal/guide"
	"github.com/guidekit/guidekit/internal/hostctx"
	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/internal/observer"
	"github.com/guidekit/guidekit/pkg/domain"
	"github.com/guidekit/guidekit/pkg/ports"
)

// Bridge owns the palette protocol. Handle must be called from the engine's
// interactive loop; the sender may be swapped at any time as palette
// connections come and go.
type Bridge struct {
	coord     *guide.Coordinator
	observer  *observer.Observer
	snapshots *hostctx.Provider
	prefs     ports.PreferenceStore
	logger    *slog.Logger

	mu     sync.Mutex
	sender ports.PaletteSender
}

// New creates a bridge with no palette attached.
func New(coord *guide.Coordinator, obs *observer.Observer, snapshots *hostctx.Provider, prefs ports.PreferenceStore, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bridge{
		coord:     coord,
		observer:  obs,
		snapshots: snapshots,
		prefs:     prefs,
		logger:    logger,
	}
}

// AttachSender points outbound messages at a palette connection. Passing nil
// detaches.
func (b *Bridge) AttachSender(sender ports.PaletteSender) {
	b.mu.Lock()
	b.sender = sender
	b.mu.Unlock()
}

// DetachSender clears the sender, but only if it is still the one given, so
// a stale connection closing cannot detach its replacement.
func (b *Bridge) DetachSender(sender ports.PaletteSender) {
	b.mu.Lock()
	if b.sender == sender {
		b.sender = nil
	}
	b.mu.Unlock()
}

func (b *Bridge) send(msg any) {
	b.mu.Lock()
	sender := b.sender
	b.mu.Unlock()
	if sender == nil {
		b.logger.Debug("no palette attached, dropping message")
		return
	}
	if err := sender.Send(msg); err != nil {
		b.logger.Warn("palette send failed", "err", err)
	}
}

func (b *Bridge) sendError(message string) {
	b.send(errorMsg{Action: "error", Success: false, Message: message})
}

// Handle decodes one inbound palette message and dispatches it. Messages
// with no action field are transport acknowledgments and are ignored.
func (b *Bridge) Handle(ctx context.Context, raw []byte) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		b.sendError("malformed message: " + err.Error())
		return
	}
	action, _ := fields["action"].(string)
	if action == "" {
		return
	}
	b.dispatch(ctx, action, fields)
}

func (b *Bridge) dispatch(ctx context.Context, action string, fields map[string]any) {
	b.logger.Debug("palette message", "palette_action", action)

	switch action {
	case "ready":
		b.handleReady(ctx)

	case "loadTutorial":
		var req struct {
			TutorialID string `mapstructure:"tutorialId"`
		}
		if err := mapstructure.Decode(fields, &req); err != nil || req.TutorialID == "" {
			b.sendError("loadTutorial requires a tutorialId")
			return
		}
		payload, err := b.coord.LoadTutorial(ctx, req.TutorialID)
		if err != nil {
			b.sendError(err.Error())
			return
		}
		b.send(stepMsg{Action: "updateStep", Success: true, Step: payload})

	case "next", "prev":
		b.navigate(ctx, action, 0)

	case "goToStep":
		var req struct {
			Index *int `mapstructure:"index"`
		}
		if err := decode(fields, &req); err != nil || req.Index == nil {
			b.sendError("goToStep requires an index")
			return
		}
		b.navigate(ctx, "goToStep", *req.Index)

	case "getConsent":
		b.sendConsent(ctx)

	case "setConsent":
		b.handleSetConsent(ctx, fields)

	case "showRedirectHelp":
		b.handleShowRedirectHelp(ctx, fields)

	case "skipRedirectHelp":
		var req struct {
			TargetIndex *int `mapstructure:"targetIndex"`
		}
		if err := decode(fields, &req); err != nil {
			b.sendError("skipRedirectHelp: invalid targetIndex")
			return
		}
		target := -1
		if req.TargetIndex != nil {
			target = *req.TargetIndex
		}
		payload, err := b.coord.SkipRedirectHelp(ctx, target)
		if err != nil {
			b.sendError(err.Error())
			return
		}
		b.send(stepMsg{Action: "updateStep", Success: true, Step: payload})

	case "skipRedirect":
		payload, ok := b.coord.SkipRedirect()
		if !ok {
			b.sendError("no tutorial loaded")
			return
		}
		b.send(stepMsg{Action: "updateStep", Success: true, Step: payload})

	case "captureViewport":
		var req struct {
			Filename string `mapstructure:"filename"`
		}
		if err := decode(fields, &req); err != nil || req.Filename == "" {
			b.sendError("captureViewport requires a filename")
			return
		}
		path, err := b.coord.CaptureViewport(req.Filename)
		if err != nil {
			b.sendError(err.Error())
			return
		}
		b.send(viewportCapturedMsg{Action: "viewportCaptured", Success: true, Path: path, DataURL: captureDataURL(path)})

	case "checkQCConditions":
		var req struct {
			Conditions []domain.QCCondition `mapstructure:"conditions"`
		}
		if err := decode(fields, &req); err != nil {
			b.sendError("checkQCConditions: invalid conditions payload")
			return
		}
		results := b.observer.CheckQCConditions(req.Conditions)
		b.send(qcResultsMsg{Action: "qcResults", Success: true, Results: results})

	case "getDesignState":
		b.send(designStateMsg{Action: "designState", Success: true, State: b.observer.CurrentState()})

	case "resetTracking":
		b.observer.ResetTracking()
		b.send(ackMsg{Action: "resetTracking", Success: true})

	default:
		b.sendError("unknown action: " + action)
	}
}

func (b *Bridge) navigate(ctx context.Context, direction string, index int) {
	payload, err := b.coord.Navigate(ctx, direction, index)
	if err != nil {
		if errors.Is(err, domain.ErrNoTutorial) {
			b.sendError("no tutorial loaded")
			return
		}
		b.sendError(err.Error())
		return
	}
	b.send(stepMsg{Action: "updateStep", Success: true, Step: payload})
}

// handleReady answers the palette's handshake. On a first run the palette is
// asked to collect consent before anything else; otherwise the current step,
// if any, is replayed so a reloaded palette can restore its view.
func (b *Bridge) handleReady(ctx context.Context) {
	prefs := domain.DefaultPreferences()
	if b.prefs != nil {
		if p, err := b.prefs.Preferences(ctx); err == nil {
			prefs = p
		}
	}
	if !prefs.FirstRunCompleted {
		b.send(consentRequiredMsg{Action: "consentRequired", Success: true, Mode: string(prefs.AIGuidanceMode)})
		return
	}
	b.send(ackMsg{Action: "ready", Success: true})
	if payload, ok := b.coord.State().Current(); ok {
		b.send(stepMsg{Action: "updateStep", Success: true, Step: payload})
	}
}

func (b *Bridge) sendConsent(ctx context.Context) {
	prefs := domain.DefaultPreferences()
	if b.prefs != nil {
		if p, err := b.prefs.Preferences(ctx); err == nil {
			prefs = p
		}
	}
	b.send(consentMsg{
		Action:              "consent",
		Success:             true,
		Mode:                string(prefs.AIGuidanceMode),
		FirstRun:            !prefs.FirstRunCompleted,
		ShowContextWarnings: prefs.ShowContextWarnings,
	})
}

func (b *Bridge) handleSetConsent(ctx context.Context, fields map[string]any) {
	var req struct {
		Mode                string `mapstructure:"mode"`
		ShowContextWarnings *bool  `mapstructure:"showContextWarnings"`
	}
	if err := decode(fields, &req); err != nil {
		b.sendError("setConsent: invalid payload")
		return
	}
	mode, err := domain.ParseGuidanceMode(req.Mode)
	if err != nil {
		b.sendError(err.Error())
		return
	}
	if b.prefs != nil {
		if err := b.prefs.SetGuidanceMode(ctx, mode); err != nil {
			b.sendError(err.Error())
			return
		}
		if req.ShowContextWarnings != nil {
			if err := b.prefs.SetShowContextWarnings(ctx, *req.ShowContextWarnings); err != nil {
				b.sendError(err.Error())
				return
			}
		}
		if err := b.prefs.MarkFirstRunComplete(ctx); err != nil {
			b.sendError(err.Error())
			return
		}
	}
	b.sendConsent(ctx)
}

// handleShowRedirectHelp launches the policy-gated redirect flow for the
// requested step, defaulting to the current one.
func (b *Bridge) handleShowRedirectHelp(ctx context.Context, fields map[string]any) {
	var req struct {
		TargetIndex *int `mapstructure:"targetIndex"`
	}
	if err := decode(fields, &req); err != nil {
		b.sendError("showRedirectHelp: invalid targetIndex")
		return
	}
	t := b.coord.State().Tutorial()
	if t == nil {
		b.sendError("no tutorial loaded")
		return
	}
	target := b.coord.State().Index()
	if req.TargetIndex != nil {
		target = *req.TargetIndex
	}
	step, ok := t.Step(target)
	if !ok {
		b.sendError("invalid step index")
		return
	}

	snap := b.snapshots.Current()
	details := hostctx.DescribeMismatch(snap, step.Requires)
	if details.Matched {
		b.send(redirectCompleteMsg{Action: "redirectComplete", Success: true, TargetIndex: target})
		return
	}
	b.coord.StartRedirect(details, target)
}

// ForwardCompletion is registered as an observer callback and relays every
// completion event to the palette.
func (b *Bridge) ForwardCompletion(event domain.CompletionEvent) {
	b.send(completionEventMsg{Action: "completionEvent", Success: true, Event: event})
}

// decode maps loosely-typed palette fields onto a request struct, coercing
// JSON numbers onto int fields.
func decode(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}

// Notifier implementation: the coordinator's unsolicited events.

func (b *Bridge) ContextWarning(details domain.MismatchDetails, targetIndex int) {
	b.send(contextWarningMsg{Action: "contextWarning", Success: true, Mismatch: details, TargetIndex: targetIndex})
}

func (b *Bridge) ContextResolved(snap domain.ContextSnapshot) {
	b.send(contextResolvedMsg{Action: "contextResolved", Success: true, Context: snap})
}

func (b *Bridge) RedirectOffer(details domain.MismatchDetails, targetIndex int) {
	b.send(redirectOfferMsg{Action: "redirectOffer", Success: true, Mismatch: details, TargetIndex: targetIndex})
}

func (b *Bridge) RedirectStarted(step *domain.RedirectStep) {
	b.send(redirectStepMsg{Action: "redirectStep", Success: true, Step: step})
}

func (b *Bridge) RedirectComplete(targetIndex int) {
	b.send(redirectCompleteMsg{Action: "redirectComplete", Success: true, TargetIndex: targetIndex})
}

func (b *Bridge) StepChanged(payload domain.StepPayload) {
	b.send(stepMsg{Action: "updateStep", Success: true, Step: payload})
}

func (b *Bridge) ViewportCaptured(path string, stepIndex int) {
	b.send(viewportCapturedMsg{Action: "viewportCaptured", Success: true, Path: path, DataURL: captureDataURL(path), StepIndex: stepIndex})
}

// captureDataURL embeds the captured image when it is readable; the palette
// falls back to the path otherwise.
func captureDataURL(path string) string {
	url, err := assets.FileDataURL(path)
	if err != nil {
		return ""
	}
	return url
}
