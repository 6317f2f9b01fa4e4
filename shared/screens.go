package shared

// Screen identifies one view of the app. The set is closed.
type Screen string

const (
	ScreenWelcome         Screen = "welcome"
	ScreenOTP             Screen = "otp"
	ScreenBusinessDetails Screen = "business-details"
	ScreenAAConsent       Screen = "aa-consent"
	ScreenDashboard       Screen = "dashboard"
	ScreenConnectData     Screen = "connect-data"
	ScreenLoanApplication Screen = "loan-application"
	ScreenCreditSummary   Screen = "credit-summary"
	ScreenLoanOffer       Screen = "loan-offer"
	ScreenSuccess         Screen = "success"
	ScreenRepayment       Screen = "repayment"
	ScreenAnalytics       Screen = "analytics"
	ScreenGamification    Screen = "gamification"
	ScreenSettings        Screen = "settings"
	ScreenCreditCoach     Screen = "credit-coach"
	ScreenGrowthInsights  Screen = "growth-insights"
	ScreenRewardsTier     Screen = "rewards-tier"
)

// AllScreens lists every screen in declaration order.
var AllScreens = []Screen{
	ScreenWelcome,
	ScreenOTP,
	ScreenBusinessDetails,
	ScreenAAConsent,
	ScreenDashboard,
	ScreenConnectData,
	ScreenLoanApplication,
	ScreenCreditSummary,
	ScreenLoanOffer,
	ScreenSuccess,
	ScreenRepayment,
	ScreenAnalytics,
	ScreenGamification,
	ScreenSettings,
	ScreenCreditCoach,
	ScreenGrowthInsights,
	ScreenRewardsTier,
}

// Valid reports whether s is one of the known screens.
func (s Screen) Valid() bool {
	for _, known := range AllScreens {
		if s == known {
			return true
		}
	}
	return false
}

// Action names an outbound event a screen can emit.
type Action string

const (
	ActionNext               Action = "next"
	ActionBack               Action = "back"
	ActionSkip               Action = "skip"
	ActionComplete           Action = "complete"
	ActionAccept             Action = "accept"
	ActionApplyLimitIncrease Action = "apply-limit-increase"
	ActionNavigate           Action = "navigate"

	// ActionUpdate merges Event.Patch without changing the screen.
	ActionUpdate Action = "update"
	// ActionConnect marks Event.Source as linked on the connect-data screen.
	ActionConnect Action = "connect"
)

// Known reports whether a is one of the actions sessions understand.
func (a Action) Known() bool {
	switch a {
	case ActionNext, ActionBack, ActionSkip, ActionComplete, ActionAccept,
		ActionApplyLimitIncrease, ActionNavigate, ActionUpdate, ActionConnect:
		return true
	}
	return false
}

// Event is one user-triggered invocation delivered to a session.
type Event struct {
	Action Action `json:"action"`
	// Target is the destination for ActionNavigate.
	Target Screen `json:"target,omitempty"`
	// Patch is merged into the profile in the same step as the transition.
	Patch *Profile `json:"patch,omitempty"`
	// Source is the data provider id for ActionConnect.
	Source string `json:"source,omitempty"`
}

// Edge is an outbound transition exposed by a screen.
type Edge struct {
	Action Action `json:"action"`
	Target Screen `json:"target"`
}
