package shared

import "time"

// Task queue names.
const (
	SessionWorkflowTaskQueue = "session-workflow-tq"
	ActivityTaskQueue        = "activity-tq"
)

// Update, signal and query names.
const (
	UpdateSessionEvent   = "update-session-event"
	SignalSessionClose   = "signal-session-close"
	QuerySessionSnapshot = "query-session-snapshot"
)

// DefaultIdleTimeout ends a session that has received no events for this long.
const DefaultIdleTimeout = 30 * time.Minute

// DefaultEventsPerRun is how many events one workflow run applies before it
// continues as new.
const DefaultEventsPerRun = 500

// Error types for non-retryable failures.
const (
	ErrTypeUnknownDataProvider = "UnknownDataProvider"
)

// Error types carried by rejected session events.
const (
	ErrTypeNoSuchEdge    = "NoSuchEdge"
	ErrTypeUnknownScreen = "UnknownScreen"
	ErrTypeMissingSource = "MissingSource"
	ErrTypeSessionEnded  = "SessionEnded"
)
