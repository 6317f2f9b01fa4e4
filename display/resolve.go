package display

import (
	"mitra-credit/flow"
	"mitra-credit/shared"
)

// Fallbacks substituted for profile fields that are not set yet.
const (
	DefaultCreditLimit    = flow.ConsentCreditLimit
	DefaultAvailableLimit = flow.ConsentAvailableLimit
	DefaultCreditScore    = flow.ConsentCreditScore
	DefaultCoins          = flow.DefaultCoins
	DefaultLevel          = flow.DefaultLevel
	DefaultTenor          = 12
	DefaultInterestRate   = 14.0
	NotProvided           = "Not provided"

	// DefaultGreeting stands in for the business name in the dashboard header.
	DefaultGreeting = "Business"
)

// Resolved is a profile with every field filled, either from the profile
// or from its fallback.
type Resolved struct {
	Mobile         string  `json:"mobile"`
	BusinessName   string  `json:"businessName"`
	GSTIN          string  `json:"gstin"`
	PAN            string  `json:"pan"`
	CreditLimit    int64   `json:"creditLimit"`
	AvailableLimit int64   `json:"availableLimit"`
	CreditScore    int     `json:"creditScore"`
	LoanAmount     int64   `json:"loanAmount"`
	Tenor          int     `json:"tenor"`
	EMI            float64 `json:"emi"`
	InterestRate   float64 `json:"interestRate"`
	Coins          int     `json:"coins"`
	Level          string  `json:"level"`
}

// Resolve fills every absent field of p with its documented fallback. A
// missing EMI is derived from the loan figures.
func Resolve(p shared.Profile) Resolved {
	r := Resolved{
		Mobile:         or(p.Mobile, NotProvided),
		BusinessName:   or(p.BusinessName, NotProvided),
		GSTIN:          or(p.GSTIN, NotProvided),
		PAN:            or(p.PAN, NotProvided),
		CreditLimit:    or(p.CreditLimit, DefaultCreditLimit),
		AvailableLimit: or(p.AvailableLimit, DefaultAvailableLimit),
		CreditScore:    or(p.CreditScore, DefaultCreditScore),
		LoanAmount:     or(p.LoanAmount, 0),
		Tenor:          or(p.Tenor, DefaultTenor),
		InterestRate:   or(p.InterestRate, DefaultInterestRate),
		Coins:          or(p.Coins, DefaultCoins),
		Level:          or(p.Level, DefaultLevel),
	}
	if p.EMI != nil {
		r.EMI = *p.EMI
	} else {
		r.EMI = EMI(r.LoanAmount, r.InterestRate, r.Tenor)
	}
	return r
}

func or[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
