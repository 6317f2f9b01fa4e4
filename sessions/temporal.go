package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"mitra-credit/flow"
	"mitra-credit/shared"
	"mitra-credit/workflows"
)

// WorkflowID maps a session id to its workflow id. The id doubles as an
// idempotency key: Temporal refuses a second running workflow for it.
func WorkflowID(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// Temporal hosts each session in its own SessionWorkflow.
type Temporal struct {
	client      client.Client
	logger      *slog.Logger
	idleTimeout time.Duration

	// NewID generates session ids. Defaults to uuid.NewString.
	NewID func() string
}

// NewTemporal returns a backend that starts sessions on the session task queue.
func NewTemporal(c client.Client, logger *slog.Logger, idleTimeout time.Duration) *Temporal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Temporal{client: c, logger: logger, idleTimeout: idleTimeout}
}

// Start implements Backend.
func (t *Temporal) Start(ctx context.Context) (shared.SessionSnapshot, error) {
	id := uuid.NewString()
	if t.NewID != nil {
		id = t.NewID()
	}

	req := shared.SessionRequest{SessionID: id, IdleTimeout: t.idleTimeout}
	run, err := t.client.ExecuteWorkflow(ctx,
		client.StartWorkflowOptions{
			ID:        WorkflowID(id),
			TaskQueue: shared.SessionWorkflowTaskQueue,
		},
		workflows.SessionWorkflow,
		req,
	)
	if err != nil {
		return shared.SessionSnapshot{}, fmt.Errorf("start session workflow: %w", err)
	}
	t.logger.Info("session workflow started", "session_id", id, "workflow_id", run.GetID(), "run_id", run.GetRunID())

	// The workflow has not necessarily run its first task yet, so the
	// initial snapshot is built locally.
	snap := flow.NewSession().Snapshot()
	snap.SessionID = id
	return snap, nil
}

// Dispatch implements Backend. The event goes to the workflow as an
// update; the workflow validates it against its own state and answers with
// the snapshot it produced, so the response always matches what the session
// really holds.
func (t *Temporal) Dispatch(ctx context.Context, id string, ev shared.Event) (shared.SessionSnapshot, error) {
	handle, err := t.client.UpdateWorkflow(ctx, client.UpdateWorkflowOptions{
		WorkflowID:   WorkflowID(id),
		UpdateName:   shared.UpdateSessionEvent,
		Args:         []interface{}{ev},
		WaitForStage: client.WorkflowUpdateStageCompleted,
	})
	if err == nil {
		var snap shared.SessionSnapshot
		if err = handle.Get(ctx, &snap); err == nil {
			return snap, nil
		}
	}

	rejected := eventRejection(err)
	switch {
	case rejected == nil:
		return shared.SessionSnapshot{}, mapTemporalError("update session event", err)
	case errors.Is(rejected, ErrNotFound):
		return shared.SessionSnapshot{}, rejected
	}
	t.logger.Debug("session event rejected", "session_id", id, "action", ev.Action, "error", rejected)

	current, qerr := t.Snapshot(ctx, id)
	if qerr != nil {
		return shared.SessionSnapshot{}, rejected
	}
	current.LastError = rejected.Error()
	return current, rejected
}

// Snapshot implements Backend.
func (t *Temporal) Snapshot(ctx context.Context, id string) (shared.SessionSnapshot, error) {
	val, err := t.client.QueryWorkflow(ctx, WorkflowID(id), "", shared.QuerySessionSnapshot)
	if err != nil {
		return shared.SessionSnapshot{}, mapTemporalError("query session snapshot", err)
	}
	var snap shared.SessionSnapshot
	if err := val.Get(&snap); err != nil {
		return shared.SessionSnapshot{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	return snap, nil
}

// Close implements Backend.
func (t *Temporal) Close(ctx context.Context, id string) error {
	err := t.client.SignalWorkflow(ctx, WorkflowID(id), "", shared.SignalSessionClose, "closed by client")
	if err != nil {
		return mapTemporalError("signal session close", err)
	}
	return nil
}

// remoteFlowError is a flow error that was raised inside the workflow.
type remoteFlowError struct {
	sentinel error
	message  string
}

func (e *remoteFlowError) Error() string { return e.message }
func (e *remoteFlowError) Unwrap() error { return e.sentinel }

// eventRejection recovers the flow error behind a rejected update. It
// returns ErrNotFound for updates sent to a session that already ended and
// nil for failures that are not rejections.
func eventRejection(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return nil
	}
	if appErr.Type() == shared.ErrTypeSessionEnded {
		return fmt.Errorf("update session event: %w", ErrNotFound)
	}
	sentinel := flow.ErrorForType(appErr.Type())
	if sentinel == nil {
		return nil
	}
	return &remoteFlowError{sentinel: sentinel, message: appErr.Message()}
}

func mapTemporalError(op string, err error) error {
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
