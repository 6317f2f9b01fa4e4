// Package flow holds the screen state machine and the profile store it
// drives. Everything here is deterministic and free of I/O so it can run
// inside a Temporal workflow as well as in a plain process.
package flow

import (
	"errors"
	"fmt"

	"mitra-credit/shared"
)

var (
	// ErrUnknownScreen is returned for screen identifiers outside the closed set.
	ErrUnknownScreen = errors.New("unknown screen")
	// ErrNoSuchEdge is returned when the current screen does not expose the action.
	ErrNoSuchEdge = errors.New("no such edge")
	// ErrMissingSource is returned for a connect event without a provider id.
	ErrMissingSource = errors.New("missing data source")
)

var errorTypes = map[error]string{
	ErrUnknownScreen: shared.ErrTypeUnknownScreen,
	ErrNoSuchEdge:    shared.ErrTypeNoSuchEdge,
	ErrMissingSource: shared.ErrTypeMissingSource,
}

// ErrorType names the flow error err wraps, for hosts that carry errors as
// typed strings. It returns "" for anything else.
func ErrorType(err error) string {
	for sentinel, t := range errorTypes {
		if errors.Is(err, sentinel) {
			return t
		}
	}
	return ""
}

// ErrorForType returns the flow error named by t, or nil.
func ErrorForType(t string) error {
	for sentinel, name := range errorTypes {
		if name == t {
			return sentinel
		}
	}
	return nil
}

// State is the full owned state of one session.
type State struct {
	Screen    shared.Screen  `json:"screen"`
	Profile   shared.Profile `json:"profile"`
	Connected []string       `json:"connected,omitempty"`
}

// Initial returns the state every session starts from.
func Initial() State {
	return State{
		Screen:  shared.ScreenWelcome,
		Profile: InitialProfile(),
	}
}

// transitions lists the screen-local edges. Navigation edges (dashboard
// actions and the tab bar) are handled by ActionNavigate and only follow
// links listed by Edges.
var transitions = map[shared.Screen][]shared.Edge{
	shared.ScreenWelcome: {
		{Action: shared.ActionNext, Target: shared.ScreenOTP},
		{Action: shared.ActionSkip, Target: shared.ScreenDashboard},
	},
	shared.ScreenOTP: {
		{Action: shared.ActionNext, Target: shared.ScreenBusinessDetails},
		{Action: shared.ActionBack, Target: shared.ScreenWelcome},
	},
	shared.ScreenBusinessDetails: {
		{Action: shared.ActionNext, Target: shared.ScreenAAConsent},
		{Action: shared.ActionBack, Target: shared.ScreenOTP},
	},
	shared.ScreenAAConsent: {
		{Action: shared.ActionNext, Target: shared.ScreenDashboard},
		{Action: shared.ActionBack, Target: shared.ScreenBusinessDetails},
	},
	shared.ScreenConnectData: {
		{Action: shared.ActionBack, Target: shared.ScreenDashboard},
		{Action: shared.ActionComplete, Target: shared.ScreenDashboard},
	},
	shared.ScreenLoanApplication: {
		{Action: shared.ActionNext, Target: shared.ScreenCreditSummary},
		{Action: shared.ActionBack, Target: shared.ScreenDashboard},
	},
	shared.ScreenCreditSummary: {
		{Action: shared.ActionNext, Target: shared.ScreenLoanOffer},
		{Action: shared.ActionBack, Target: shared.ScreenLoanApplication},
	},
	shared.ScreenLoanOffer: {
		{Action: shared.ActionAccept, Target: shared.ScreenSuccess},
		{Action: shared.ActionBack, Target: shared.ScreenCreditSummary},
	},
	shared.ScreenSuccess: {
		{Action: shared.ActionNext, Target: shared.ScreenDashboard},
	},
	shared.ScreenRepayment:    {{Action: shared.ActionBack, Target: shared.ScreenDashboard}},
	shared.ScreenAnalytics:    {{Action: shared.ActionBack, Target: shared.ScreenDashboard}},
	shared.ScreenGamification: {{Action: shared.ActionBack, Target: shared.ScreenDashboard}},
	shared.ScreenSettings:     {{Action: shared.ActionBack, Target: shared.ScreenDashboard}},
	shared.ScreenGrowthInsights: {
		{Action: shared.ActionApplyLimitIncrease, Target: shared.ScreenLoanApplication},
	},
}

// dashboardTargets are the screens the dashboard links to directly.
var dashboardTargets = []shared.Screen{
	shared.ScreenConnectData,
	shared.ScreenLoanApplication,
	shared.ScreenRepayment,
	shared.ScreenAnalytics,
	shared.ScreenGamification,
	shared.ScreenSettings,
}

// TabScreens are the screens reachable from the bottom tab bar, in display order.
var TabScreens = []shared.Screen{
	shared.ScreenDashboard,
	shared.ScreenCreditCoach,
	shared.ScreenGrowthInsights,
	shared.ScreenRewardsTier,
	shared.ScreenSettings,
}

// TabBarVisible reports whether the bottom tab bar is shown on screen.
func TabBarVisible(screen shared.Screen) bool {
	for _, s := range TabScreens {
		if s == screen {
			return true
		}
	}
	return false
}

// Edges lists the outbound edges screen exposes, local edges first, then
// dashboard links, then tab bar entries.
func Edges(screen shared.Screen) []shared.Edge {
	edges := append([]shared.Edge(nil), transitions[screen]...)
	if screen == shared.ScreenDashboard {
		for _, target := range dashboardTargets {
			edges = append(edges, shared.Edge{Action: shared.ActionNavigate, Target: target})
		}
	}
	if TabBarVisible(screen) {
		for _, target := range TabScreens {
			edges = append(edges, shared.Edge{Action: shared.ActionNavigate, Target: target})
		}
	}
	return edges
}

// linksTo reports whether screen exposes a navigate edge to target.
func linksTo(screen, target shared.Screen) bool {
	for _, e := range Edges(screen) {
		if e.Action == shared.ActionNavigate && e.Target == target {
			return true
		}
	}
	return false
}

func lookup(screen shared.Screen, action shared.Action) (shared.Screen, bool) {
	for _, e := range transitions[screen] {
		if e.Action == action {
			return e.Target, true
		}
	}
	return "", false
}

// Reduce applies one event to s and returns the next state. The profile
// patch and any fixed profile fill of the edge land in the same step as the
// screen change. On error s is returned unchanged.
func Reduce(s State, ev shared.Event) (State, error) {
	if !s.Screen.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownScreen, s.Screen)
	}

	next := State{
		Screen:    s.Screen,
		Profile:   s.Profile.Clone(),
		Connected: append([]string(nil), s.Connected...),
	}

	switch ev.Action {
	case shared.ActionUpdate:
		if ev.Patch != nil {
			next.Profile = next.Profile.Merge(*ev.Patch)
		}
		return next, nil

	case shared.ActionConnect:
		if s.Screen != shared.ScreenConnectData {
			return s, fmt.Errorf("%w: %s on %s", ErrNoSuchEdge, ev.Action, s.Screen)
		}
		if ev.Source == "" {
			return s, ErrMissingSource
		}
		if !contains(next.Connected, ev.Source) {
			next.Connected = append(next.Connected, ev.Source)
		}
		return next, nil

	case shared.ActionNavigate:
		if !ev.Target.Valid() {
			return s, fmt.Errorf("%w: %q", ErrUnknownScreen, ev.Target)
		}
		if !linksTo(s.Screen, ev.Target) {
			return s, fmt.Errorf("%w: navigate(%s) on %s", ErrNoSuchEdge, ev.Target, s.Screen)
		}
		next.Screen = ev.Target

	default:
		target, ok := lookup(s.Screen, ev.Action)
		if !ok {
			return s, fmt.Errorf("%w: %s on %s", ErrNoSuchEdge, ev.Action, s.Screen)
		}
		next.Screen = target
	}

	switch {
	case s.Screen == shared.ScreenWelcome && ev.Action == shared.ActionSkip:
		next.Profile = next.Profile.Merge(DemoProfile())
	case s.Screen == shared.ScreenAAConsent && ev.Action == shared.ActionNext:
		next.Profile = next.Profile.Merge(ConsentProfile())
	}
	if ev.Patch != nil {
		next.Profile = next.Profile.Merge(*ev.Patch)
	}

	// Connect-data keeps its provider list only while it is on screen.
	if next.Screen != shared.ScreenConnectData {
		next.Connected = nil
	}
	return next, nil
}

// IsTransition reports whether the action changes screens.
func IsTransition(action shared.Action) bool {
	return action != shared.ActionUpdate && action != shared.ActionConnect
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
