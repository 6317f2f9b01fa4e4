package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"mitra-credit/activities"
	"mitra-credit/flow"
	"mitra-credit/shared"
)

// a only supplies method references for workflow.ExecuteActivity. The
// activity worker registers the real, configured struct.
var a *activities.Activities

// End reasons reported in the session summary.
const (
	EndReasonClosed = "closed"
	EndReasonIdle   = "idle"
)

// sessionWorkflow holds workflow state and the handlers for each kind of
// incoming message.
type sessionWorkflow struct {
	// Business state
	session       *flow.Session
	events        int
	runEvents     int
	endReason     string
	otpReference  string
	consentHandle string
	linked        []string

	// Workflow context
	req      shared.SessionRequest
	logger   log.Logger
	actCtx   workflow.Context
	closeCh  workflow.ReceiveChannel
	activity workflow.Channel
	inFlight int
}

// newSessionWorkflow initializes the workflow struct, resumes any carried
// state, registers the query and update handlers, and sets up activity
// options.
func newSessionWorkflow(ctx workflow.Context, req shared.SessionRequest) (*sessionWorkflow, error) {
	if req.IdleTimeout <= 0 {
		req.IdleTimeout = shared.DefaultIdleTimeout
	}
	if req.EventsPerRun <= 0 {
		req.EventsPerRun = shared.DefaultEventsPerRun
	}
	if req.SessionID == "" {
		req.SessionID = workflow.GetInfo(ctx).WorkflowExecution.ID
	}

	w := &sessionWorkflow{
		req:      req,
		logger:   workflow.GetLogger(ctx),
		closeCh:  workflow.GetSignalChannel(ctx, shared.SignalSessionClose),
		activity: workflow.NewBufferedChannel(ctx, 1),
	}
	hook := func(from, to shared.Screen) {
		w.logger.Debug("Screen transition", "sessionId", req.SessionID, "from", from, "to", to)
	}
	if c := req.Carry; c != nil {
		w.session = flow.Resume(flow.State{Screen: c.Screen, Profile: c.Profile, Connected: c.Connected}, hook)
		w.events = c.Events
		w.otpReference = c.OTPReference
		w.consentHandle = c.ConsentHandle
		w.linked = c.LinkedSources
		w.req.Carry = nil
	} else {
		w.session = flow.NewSession(hook)
	}

	// Register query handler so the rendering surface can read the session.
	err := workflow.SetQueryHandler(ctx, shared.QuerySessionSnapshot, func() (shared.SessionSnapshot, error) {
		return w.snapshot(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set query handler: %w", err)
	}

	// Events arrive as updates: the validator rejects them before they reach
	// history and the caller gets the resulting snapshot back.
	err = workflow.SetUpdateHandlerWithOptions(ctx, shared.UpdateSessionEvent, w.handleEvent,
		workflow.UpdateHandlerOptions{Validator: w.validateEvent},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set update handler: %w", err)
	}

	// Integrations are simulated and quick; a failure never holds the user back.
	actOpts := workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{shared.ErrTypeUnknownDataProvider},
		},
	}
	w.actCtx = workflow.WithActivityOptions(ctx, actOpts)

	return w, nil
}

func (w *sessionWorkflow) snapshot() shared.SessionSnapshot {
	snap := w.session.Snapshot()
	snap.SessionID = w.req.SessionID
	snap.Events = w.events
	return snap
}

// validateEvent must not mutate workflow state.
func (w *sessionWorkflow) validateEvent(ev shared.Event) error {
	if w.endReason != "" {
		return temporal.NewApplicationError("session has ended", shared.ErrTypeSessionEnded)
	}
	if _, err := flow.Reduce(w.session.State(), ev); err != nil {
		return rejection(err)
	}
	return nil
}

// handleEvent applies one accepted event and answers with the resulting
// snapshot. The integration that belongs to the edge, if any, runs in the
// background so the answer does not wait on it.
func (w *sessionWorkflow) handleEvent(ctx workflow.Context, ev shared.Event) (shared.SessionSnapshot, error) {
	from := w.session.Screen()
	connectedBefore := len(w.session.Connected())

	if err := w.session.Dispatch(ev); err != nil {
		w.logger.Warn("Rejected session event",
			"sessionId", w.req.SessionID,
			"screen", from,
			"action", ev.Action,
			"error", err,
		)
		return shared.SessionSnapshot{}, rejection(err)
	}
	w.events++
	w.runEvents++
	w.activity.SendAsync(struct{}{})
	snap := w.snapshot()

	switch {
	case from == shared.ScreenOTP && ev.Patch != nil && ev.Patch.Mobile != nil:
		mobile := *ev.Patch.Mobile
		w.integrate(ctx, func(ctx workflow.Context) { w.sendOTP(ctx, mobile) })
	case from == shared.ScreenAAConsent && ev.Action == shared.ActionNext:
		w.integrate(ctx, w.recordConsent)
	case ev.Action == shared.ActionConnect && len(w.session.Connected()) > connectedBefore:
		w.integrate(ctx, func(ctx workflow.Context) { w.linkDataSource(ctx, ev.Source) })
	}
	return snap, nil
}

func (w *sessionWorkflow) integrate(ctx workflow.Context, fn func(workflow.Context)) {
	w.inFlight++
	workflow.Go(ctx, func(ctx workflow.Context) {
		defer func() { w.inFlight-- }()
		fn(ctx)
	})
}

// drained reports whether every update handler and integration has finished.
func (w *sessionWorkflow) drained(ctx workflow.Context) func() bool {
	return func() bool {
		return w.inFlight == 0 && workflow.AllHandlersFinished(ctx)
	}
}

// serve waits for events until the session is closed, has been idle for
// the configured timeout, or this run has applied its share of events.
func (w *sessionWorkflow) serve(ctx workflow.Context) {
	for w.endReason == "" && !w.runFull(ctx) {
		timerCtx, timerCancel := workflow.WithCancel(ctx)
		idleTimer := workflow.NewTimer(timerCtx, w.req.IdleTimeout)

		selector := workflow.NewSelector(ctx)

		selector.AddReceive(w.activity, func(ch workflow.ReceiveChannel, more bool) {
			var applied struct{}
			ch.Receive(ctx, &applied)
		})

		selector.AddReceive(w.closeCh, func(ch workflow.ReceiveChannel, more bool) {
			var reason string
			ch.Receive(ctx, &reason)
			w.closeRequested(reason)
		})

		selector.AddFuture(idleTimer, func(f workflow.Future) {
			if err := f.Get(ctx, nil); err == nil {
				w.logger.Info("Session idle, ending", "sessionId", w.req.SessionID)
				w.endReason = EndReasonIdle
			}
		})

		selector.Select(ctx)
		timerCancel()
	}
}

func (w *sessionWorkflow) closeRequested(reason string) {
	w.logger.Info("Session close requested", "sessionId", w.req.SessionID, "reason", reason)
	w.endReason = EndReasonClosed
}

// pendingClose picks up a close that arrived after serve stopped reading
// the close channel. Buffered signals do not survive continue-as-new.
func (w *sessionWorkflow) pendingClose() {
	var reason string
	if w.closeCh.ReceiveAsync(&reason) {
		w.closeRequested(reason)
	}
}

func (w *sessionWorkflow) runFull(ctx workflow.Context) bool {
	return w.runEvents >= w.req.EventsPerRun || workflow.GetInfo(ctx).GetContinueAsNewSuggested()
}

func (w *sessionWorkflow) carry() shared.SessionRequest {
	st := w.session.State()
	req := w.req
	req.Carry = &shared.SessionCarry{
		Screen:        st.Screen,
		Profile:       st.Profile,
		Connected:     st.Connected,
		Events:        w.events,
		OTPReference:  w.otpReference,
		ConsentHandle: w.consentHandle,
		LinkedSources: w.linked,
	}
	return req
}

// rejection converts a flow error into an application error whose type
// survives the trip back to the client.
func rejection(err error) error {
	return temporal.NewApplicationError(err.Error(), flow.ErrorType(err))
}

func (w *sessionWorkflow) sendOTP(ctx workflow.Context, mobile string) {
	req := shared.OTPRequest{SessionID: w.req.SessionID, Mobile: mobile}
	var reference string
	if err := workflow.ExecuteActivity(w.actCtx, a.SendOTP, req).Get(ctx, &reference); err != nil {
		w.logger.Error("Failed to send OTP", "sessionId", w.req.SessionID, "error", err)
		return
	}
	w.otpReference = reference
}

func (w *sessionWorkflow) recordConsent(ctx workflow.Context) {
	p := w.session.Profile()
	req := shared.ConsentRequest{
		SessionID:    w.req.SessionID,
		BusinessName: value(p.BusinessName),
		GSTIN:        value(p.GSTIN),
		PAN:          value(p.PAN),
	}
	var artefact shared.ConsentArtefact
	if err := workflow.ExecuteActivity(w.actCtx, a.RecordConsent, req).Get(ctx, &artefact); err != nil {
		w.logger.Error("Failed to record AA consent", "sessionId", w.req.SessionID, "error", err)
		return
	}
	w.consentHandle = artefact.Handle
}

func (w *sessionWorkflow) linkDataSource(ctx workflow.Context, provider string) {
	req := shared.DataSourceRequest{SessionID: w.req.SessionID, Provider: provider}
	var reference string
	if err := workflow.ExecuteActivity(w.actCtx, a.LinkDataSource, req).Get(ctx, &reference); err != nil {
		w.logger.Error("Failed to link data source", "sessionId", w.req.SessionID, "provider", provider, "error", err)
		return
	}
	w.linked = append(w.linked, provider)
}

func (w *sessionWorkflow) summary() shared.SessionSummary {
	return shared.SessionSummary{
		SessionID:     w.req.SessionID,
		FinalScreen:   w.session.Screen(),
		Events:        w.events,
		EndReason:     w.endReason,
		OTPReference:  w.otpReference,
		ConsentHandle: w.consentHandle,
		LinkedSources: w.linked,
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SessionWorkflow hosts one app session: the screen state machine and the
// profile it fills.
//
// The rendering surface drives it with the UpdateSessionEvent update and
// reads it with QuerySessionSnapshot. Each update is validated against the
// current state and applied in full before the next is looked at, and it
// returns the snapshot it produced. The session ends on SignalSessionClose or
// after IdleTimeout without events; nothing outlives it. After EventsPerRun
// events, or when the server suggests it, the run continues as new with the
// session state carried over.
//
// Integrations triggered by edges:
//   - otp with a mobile patch: SendOTP
//   - aa-consent --next-->: RecordConsent
//   - connect on connect-data: LinkDataSource
func SessionWorkflow(ctx workflow.Context, req shared.SessionRequest) (shared.SessionSummary, error) {
	w, err := newSessionWorkflow(ctx, req)
	if err != nil {
		return shared.SessionSummary{}, err
	}

	w.logger.Info("Session started", "sessionId", w.req.SessionID, "events", w.events)

	w.serve(ctx)

	if err := workflow.Await(ctx, w.drained(ctx)); err != nil {
		return shared.SessionSummary{}, err
	}

	if w.endReason == "" {
		w.pendingClose()
	}
	if w.endReason == "" {
		w.logger.Info("Continuing session as new", "sessionId", w.req.SessionID, "events", w.events)
		return shared.SessionSummary{}, workflow.NewContinueAsNewError(ctx, SessionWorkflow, w.carry())
	}

	w.logger.Info("Session ended",
		"sessionId", w.req.SessionID,
		"reason", w.endReason,
		"events", w.events,
	)
	return w.summary(), nil
}
