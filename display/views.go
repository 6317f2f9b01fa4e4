package display

import (
	"mitra-credit/content"
	"mitra-credit/shared"
)

// View is the rendered output for the current screen. Only the section
// matching Screen is set.
type View struct {
	Screen shared.Screen `json:"screen"`
	Edges  []shared.Edge `json:"edges"`
	TabBar []NavTab      `json:"tabBar,omitempty"`

	Onboarding     *OnboardingView     `json:"onboarding,omitempty"`
	Dashboard      *DashboardView      `json:"dashboard,omitempty"`
	ConnectData    *ConnectDataView    `json:"connectData,omitempty"`
	Loan           *LoanView           `json:"loan,omitempty"`
	Repayment      *RepaymentView      `json:"repayment,omitempty"`
	Analytics      *AnalyticsView      `json:"analytics,omitempty"`
	Gamification   *TierProgress       `json:"gamification,omitempty"`
	Settings       *SettingsView       `json:"settings,omitempty"`
	CreditCoach    *CreditCoachView    `json:"creditCoach,omitempty"`
	GrowthInsights *GrowthInsightsView `json:"growthInsights,omitempty"`
	Rewards        *RewardsView        `json:"rewards,omitempty"`
}

// NavTab is one bottom tab with its active state.
type NavTab struct {
	content.NavItem
	Active bool `json:"active"`
}

// BottomNav renders the tab bar for current.
func BottomNav(c *content.Catalog, current shared.Screen) []NavTab {
	tabs := make([]NavTab, 0, len(c.Nav))
	for _, item := range c.Nav {
		tabs = append(tabs, NavTab{NavItem: item, Active: item.Screen == current})
	}
	return tabs
}

// OnboardingView echoes what the onboarding screens have collected so far.
type OnboardingView struct {
	Mobile       string `json:"mobile"`
	BusinessName string `json:"businessName"`
	GSTIN        string `json:"gstin"`
	PAN          string `json:"pan"`
}

// Onboarding renders the welcome, otp, business-details and aa-consent screens.
func Onboarding(r Resolved) *OnboardingView {
	return &OnboardingView{
		Mobile:       r.Mobile,
		BusinessName: r.BusinessName,
		GSTIN:        r.GSTIN,
		PAN:          r.PAN,
	}
}

// JourneyMark is one stage of the dashboard credit journey map.
type JourneyMark struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// DashboardView is the hub screen.
type DashboardView struct {
	BusinessName     string                `json:"businessName"`
	Coins            int                   `json:"coins"`
	Level            string                `json:"level"`
	CreditLimit      int64                 `json:"creditLimit"`
	AvailableLimit   int64                 `json:"availableLimit"`
	UtilizationPct   float64               `json:"utilizationPct"`
	RingFraction     float64               `json:"ringFraction"`
	CreditScore      int                   `json:"creditScore"`
	Journey          []JourneyMark         `json:"journey"`
	DataStrengthPct  int                   `json:"dataStrengthPct"`
	DataStrengthHint string                `json:"dataStrengthHint"`
	HealthTiles      []content.Tile        `json:"healthTiles"`
	QuickActions     []content.QuickAction `json:"quickActions"`
}

// Dashboard renders the dashboard.
func Dashboard(c *content.Catalog, r Resolved) *DashboardView {
	journey := make([]JourneyMark, 0, len(c.Journey))
	for _, stage := range c.Journey {
		journey = append(journey, JourneyMark{Name: stage.Name, Active: JourneyReached(stage, r.CreditScore)})
	}
	greeting := r.BusinessName
	if greeting == NotProvided || greeting == "" {
		greeting = DefaultGreeting
	}
	return &DashboardView{
		BusinessName:     greeting,
		Coins:            r.Coins,
		Level:            r.Level,
		CreditLimit:      r.CreditLimit,
		AvailableLimit:   r.AvailableLimit,
		UtilizationPct:   Utilization(r.CreditLimit, r.AvailableLimit),
		RingFraction:     RingFraction(r.CreditLimit, r.AvailableLimit),
		CreditScore:      r.CreditScore,
		Journey:          journey,
		DataStrengthPct:  c.Dashboard.DataStrengthPct,
		DataStrengthHint: c.Dashboard.DataStrengthHint,
		HealthTiles:      c.Dashboard.HealthTiles,
		QuickActions:     c.Dashboard.QuickActions,
	}
}

// ProviderCard is a data source with its link state.
type ProviderCard struct {
	content.Provider
	Connected bool `json:"connected"`
}

// ConnectDataView is the connect-data screen.
type ConnectDataView struct {
	Providers []ProviderCard `json:"providers"`
}

// ConnectData renders the provider list against the linked set.
func ConnectData(c *content.Catalog, connected []string) *ConnectDataView {
	linked := make(map[string]bool, len(connected))
	for _, id := range connected {
		linked[id] = true
	}
	cards := make([]ProviderCard, 0, len(c.Providers))
	for _, p := range c.Providers {
		cards = append(cards, ProviderCard{Provider: p, Connected: linked[p.ID]})
	}
	return &ConnectDataView{Providers: cards}
}

// LoanView covers the loan application, credit summary, offer and success screens.
type LoanView struct {
	BusinessName   string  `json:"businessName"`
	AvailableLimit int64   `json:"availableLimit"`
	CreditScore    int     `json:"creditScore"`
	LoanAmount     int64   `json:"loanAmount"`
	Tenor          int     `json:"tenor"`
	InterestRate   float64 `json:"interestRate"`
	EMI            float64 `json:"emi"`
	TotalPayable   float64 `json:"totalPayable"`
	TotalInterest  float64 `json:"totalInterest"`
}

// Loan renders the loan figures.
func Loan(r Resolved) *LoanView {
	total := roundRupee(r.EMI * float64(r.Tenor))
	return &LoanView{
		BusinessName:   r.BusinessName,
		AvailableLimit: r.AvailableLimit,
		CreditScore:    r.CreditScore,
		LoanAmount:     r.LoanAmount,
		Tenor:          r.Tenor,
		InterestRate:   r.InterestRate,
		EMI:            r.EMI,
		TotalPayable:   total,
		TotalInterest:  roundRupee(total - float64(r.LoanAmount)),
	}
}

// RepaymentView is the repayment schedule screen.
type RepaymentView struct {
	LoanView
	Schedule []Instalment `json:"schedule"`
}

// Repayment renders the schedule for the current loan.
func Repayment(r Resolved) *RepaymentView {
	return &RepaymentView{
		LoanView: *Loan(r),
		Schedule: Schedule(r.LoanAmount, r.InterestRate, r.Tenor, r.EMI),
	}
}

// AnalyticsView is the business analytics screen.
type AnalyticsView struct {
	Revenue      []content.Point `json:"revenue"`
	Expenses     []content.Point `json:"expenses"`
	TotalRevenue int64           `json:"totalRevenue"`
	TotalProfit  int64           `json:"totalProfit"`
}

// Analytics renders the analytics series with their totals.
func Analytics(c *content.Catalog) *AnalyticsView {
	var revenue, expenses int64
	for _, p := range c.Analytics.Revenue {
		revenue += p.Value
	}
	for _, p := range c.Analytics.Expenses {
		expenses += p.Value
	}
	return &AnalyticsView{
		Revenue:      c.Analytics.Revenue,
		Expenses:     c.Analytics.Expenses,
		TotalRevenue: revenue,
		TotalProfit:  revenue - expenses,
	}
}

// TierProgress summarises where coins sit on the tier ladder. NextTier and
// CoinsToNext are nil on the top tier.
type TierProgress struct {
	Coins       int     `json:"coins"`
	Level       string  `json:"level"`
	CurrentTier string  `json:"currentTier"`
	NextTier    *string `json:"nextTier,omitempty"`
	CoinsToNext *int    `json:"coinsToNext,omitempty"`
}

// Progress computes the tier ladder position for r.
func Progress(c *content.Catalog, r Resolved) *TierProgress {
	idx := TierFor(c.Tiers, r.Coins)
	tp := &TierProgress{
		Coins:       r.Coins,
		Level:       r.Level,
		CurrentTier: c.Tiers[idx].Name,
	}
	if next, ok := NextTier(c.Tiers, idx); ok {
		gap := CoinsToNext(next, r.Coins)
		tp.NextTier = &next.Name
		tp.CoinsToNext = &gap
	}
	return tp
}

// SettingsView is the settings screen.
type SettingsView struct {
	OnboardingView
	Level string `json:"level"`
}

// Settings renders the account details.
func Settings(r Resolved) *SettingsView {
	return &SettingsView{OnboardingView: *Onboarding(r), Level: r.Level}
}

// CreditCoachView is the credit coach screen.
type CreditCoachView struct {
	Score         int              `json:"score"`
	ScoreFraction float64          `json:"scoreFraction"`
	ScoreLabel    string           `json:"scoreLabel"`
	Breakdown     []content.Factor `json:"breakdown"`
	Tips          []content.Tip    `json:"tips"`
}

// CreditCoach renders the score ring, breakdown and tips.
func CreditCoach(c *content.Catalog, r Resolved) *CreditCoachView {
	return &CreditCoachView{
		Score:         r.CreditScore,
		ScoreFraction: ScoreFraction(r.CreditScore),
		ScoreLabel:    c.Coach.ScoreLabel,
		Breakdown:     c.Coach.Breakdown,
		Tips:          c.Coach.Tips,
	}
}

// InsightCard is an insight and the edge its button fires, if any.
type InsightCard struct {
	content.Insight
	Edge *shared.Edge `json:"edge,omitempty"`
}

// GrowthInsightsView is the growth insights screen.
type GrowthInsightsView struct {
	Predictions []content.Prediction `json:"predictions"`
	Insights    []InsightCard        `json:"insights"`
}

// GrowthInsights renders predictions and insights. The highlighted insight
// carries the limit increase edge.
func GrowthInsights(c *content.Catalog) *GrowthInsightsView {
	cards := make([]InsightCard, 0, len(c.Insights.Items))
	for _, item := range c.Insights.Items {
		card := InsightCard{Insight: item}
		if item.Highlight {
			card.Edge = &shared.Edge{Action: shared.ActionApplyLimitIncrease, Target: shared.ScreenLoanApplication}
		}
		cards = append(cards, card)
	}
	return &GrowthInsightsView{Predictions: c.Insights.Predictions, Insights: cards}
}

// TierCard is a tier with its unlock state.
type TierCard struct {
	content.Tier
	Unlocked bool `json:"unlocked"`
	Current  bool `json:"current"`
}

// RewardCard is a reward with its redeem state. Redemption is display only.
type RewardCard struct {
	content.Reward
	Redeemable bool `json:"redeemable"`
	Shortfall  int  `json:"shortfall"`
}

// RewardsView is the rewards and tier screen.
type RewardsView struct {
	TierProgress
	Tiers   []TierCard   `json:"tiers"`
	Rewards []RewardCard `json:"rewards"`
}

// Rewards renders the tier ladder and reward catalogue for r.
func Rewards(c *content.Catalog, r Resolved) *RewardsView {
	progress := Progress(c, r)
	tiers := make([]TierCard, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, TierCard{
			Tier:     t,
			Unlocked: Unlocked(t, r.Coins),
			Current:  t.Name == progress.CurrentTier,
		})
	}
	rewards := make([]RewardCard, 0, len(c.Rewards))
	for _, rw := range c.Rewards {
		rewards = append(rewards, RewardCard{
			Reward:     rw,
			Redeemable: Redeemable(rw, r.Coins),
			Shortfall:  Shortfall(rw, r.Coins),
		})
	}
	return &RewardsView{TierProgress: *progress, Tiers: tiers, Rewards: rewards}
}

// Render builds the view for the snapshot's current screen.
func Render(c *content.Catalog, snap shared.SessionSnapshot) View {
	r := Resolve(snap.Profile)
	v := View{Screen: snap.Screen, Edges: snap.Edges}
	if snap.TabBarVisible {
		v.TabBar = BottomNav(c, snap.Screen)
	}

	switch snap.Screen {
	case shared.ScreenWelcome, shared.ScreenOTP, shared.ScreenBusinessDetails, shared.ScreenAAConsent:
		v.Onboarding = Onboarding(r)
	case shared.ScreenDashboard:
		v.Dashboard = Dashboard(c, r)
	case shared.ScreenConnectData:
		v.ConnectData = ConnectData(c, snap.Connected)
	case shared.ScreenLoanApplication, shared.ScreenCreditSummary, shared.ScreenLoanOffer, shared.ScreenSuccess:
		v.Loan = Loan(r)
	case shared.ScreenRepayment:
		v.Repayment = Repayment(r)
	case shared.ScreenAnalytics:
		v.Analytics = Analytics(c)
	case shared.ScreenGamification:
		v.Gamification = Progress(c, r)
	case shared.ScreenSettings:
		v.Settings = Settings(r)
	case shared.ScreenCreditCoach:
		v.CreditCoach = CreditCoach(c, r)
	case shared.ScreenGrowthInsights:
		v.GrowthInsights = GrowthInsights(c)
	case shared.ScreenRewardsTier:
		v.Rewards = Rewards(c, r)
	}
	return v
}
