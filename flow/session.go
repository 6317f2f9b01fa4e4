package flow

import (
	"fmt"

	"mitra-credit/shared"
)

// TransitionHook observes every screen transition. Visual hosts use it to
// reset the scroll position.
type TransitionHook func(from, to shared.Screen)

// Session owns one State and applies events to it. It is not safe for
// concurrent use; hosts deliver events one at a time.
type Session struct {
	state State
	hooks []TransitionHook
}

// NewSession starts a session in the initial state.
func NewSession(hooks ...TransitionHook) *Session {
	return &Session{state: Initial(), hooks: hooks}
}

// Resume continues a session from a previously captured state.
func Resume(s State, hooks ...TransitionHook) *Session {
	return &Session{state: s, hooks: hooks}
}

// Screen returns the current screen.
func (s *Session) Screen() shared.Screen { return s.state.Screen }

// Profile returns a copy of the current profile.
func (s *Session) Profile() shared.Profile { return s.state.Profile.Clone() }

// TabBarVisible reports whether the tab bar shows on the current screen.
func (s *Session) TabBarVisible() bool { return TabBarVisible(s.state.Screen) }

// Connected returns the providers linked on the connect-data screen.
func (s *Session) Connected() []string {
	return append([]string(nil), s.state.Connected...)
}

// State returns a copy of the full session state.
func (s *Session) State() State {
	return State{
		Screen:    s.state.Screen,
		Profile:   s.state.Profile.Clone(),
		Connected: s.Connected(),
	}
}

// Dispatch applies ev. On error the session is left untouched.
func (s *Session) Dispatch(ev shared.Event) error {
	next, err := Reduce(s.state, ev)
	if err != nil {
		return err
	}
	from := s.state.Screen
	s.state = next
	if IsTransition(ev.Action) {
		s.notify(from, next.Screen)
	}
	return nil
}

func (s *Session) notify(from, to shared.Screen) {
	for _, hook := range s.hooks {
		hook(from, to)
	}
}

// Fire invokes the named edge of the current screen.
func (s *Session) Fire(action shared.Action) error {
	return s.Dispatch(shared.Event{Action: action})
}

// Navigate moves to target unconditionally. Unlike a navigate event it
// does not require the current screen to link to target; only identifiers
// outside the closed set are rejected.
func (s *Session) Navigate(target shared.Screen) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, target)
	}
	from := s.state.Screen
	s.state.Screen = target
	if target != shared.ScreenConnectData {
		s.state.Connected = nil
	}
	s.notify(from, target)
	return nil
}

// Update merges patch into the profile. It fails only when the session was
// resumed on an unknown screen.
func (s *Session) Update(patch shared.Profile) error {
	return s.Dispatch(shared.Event{Action: shared.ActionUpdate, Patch: &patch})
}

// Reset returns the session to the initial state.
func (s *Session) Reset() {
	s.state = Initial()
}

// Snapshot describes the session for hosts. SessionID, Events and
// LastError are left for the host to fill.
func (s *Session) Snapshot() shared.SessionSnapshot {
	return shared.SessionSnapshot{
		Screen:        s.state.Screen,
		Profile:       s.Profile(),
		TabBarVisible: s.TabBarVisible(),
		Edges:         Edges(s.state.Screen),
		Connected:     s.Connected(),
	}
}

// StateOf rebuilds a State from a snapshot.
func StateOf(snap shared.SessionSnapshot) State {
	return State{
		Screen:    snap.Screen,
		Profile:   snap.Profile.Clone(),
		Connected: append([]string(nil), snap.Connected...),
	}
}
