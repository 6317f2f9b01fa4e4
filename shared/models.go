package shared

import "time"

// Profile is the shared user record. Every field is optional; nil means the
// screen responsible for it has not been visited yet.
type Profile struct {
	// Identity
	Mobile       *string `json:"mobile,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
	GSTIN        *string `json:"gstin,omitempty"`
	PAN          *string `json:"pan,omitempty"`

	// Credit, in rupees
	CreditLimit    *int64 `json:"creditLimit,omitempty"`
	AvailableLimit *int64 `json:"availableLimit,omitempty"`
	CreditScore    *int   `json:"creditScore,omitempty"`

	// Loan
	LoanAmount   *int64   `json:"loanAmount,omitempty"`
	Tenor        *int     `json:"tenor,omitempty"` // months
	EMI          *float64 `json:"emi,omitempty"`
	InterestRate *float64 `json:"interestRate,omitempty"` // annual percent

	// Engagement
	Coins *int    `json:"coins,omitempty"`
	Level *string `json:"level,omitempty"`
}

// Merge returns a copy of p with every field set in patch written over it.
// Fields left nil in patch keep their current value.
func (p Profile) Merge(patch Profile) Profile {
	return Profile{
		Mobile:         pick(p.Mobile, patch.Mobile),
		BusinessName:   pick(p.BusinessName, patch.BusinessName),
		GSTIN:          pick(p.GSTIN, patch.GSTIN),
		PAN:            pick(p.PAN, patch.PAN),
		CreditLimit:    pick(p.CreditLimit, patch.CreditLimit),
		AvailableLimit: pick(p.AvailableLimit, patch.AvailableLimit),
		CreditScore:    pick(p.CreditScore, patch.CreditScore),
		LoanAmount:     pick(p.LoanAmount, patch.LoanAmount),
		Tenor:          pick(p.Tenor, patch.Tenor),
		EMI:            pick(p.EMI, patch.EMI),
		InterestRate:   pick(p.InterestRate, patch.InterestRate),
		Coins:          pick(p.Coins, patch.Coins),
		Level:          pick(p.Level, patch.Level),
	}
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	return Profile{}.Merge(p)
}

func pick[T any](cur, next *T) *T {
	src := cur
	if next != nil {
		src = next
	}
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

// Ptr returns a pointer to v. Handy for building profile patches.
func Ptr[T any](v T) *T {
	return &v
}

// SessionRequest is the input to the SessionWorkflow.
type SessionRequest struct {
	SessionID    string        `json:"sessionId"`
	IdleTimeout  time.Duration `json:"idleTimeout"`
	EventsPerRun int           `json:"eventsPerRun,omitempty"`

	// Carry is set when a run continues a session as new.
	Carry *SessionCarry `json:"carry,omitempty"`
}

// SessionCarry is the session state handed from one workflow run to the next.
type SessionCarry struct {
	Screen        Screen   `json:"screen"`
	Profile       Profile  `json:"profile"`
	Connected     []string `json:"connected,omitempty"`
	Events        int      `json:"events"`
	OTPReference  string   `json:"otpReference,omitempty"`
	ConsentHandle string   `json:"consentHandle,omitempty"`
	LinkedSources []string `json:"linkedSources,omitempty"`
}

// SessionSnapshot is returned by the snapshot query and the event update.
type SessionSnapshot struct {
	SessionID     string   `json:"sessionId"`
	Screen        Screen   `json:"screen"`
	Profile       Profile  `json:"profile"`
	TabBarVisible bool     `json:"tabBarVisible"`
	Edges         []Edge   `json:"edges"`
	Connected     []string `json:"connected,omitempty"`
	Events        int      `json:"events"`
	LastError     string   `json:"lastError,omitempty"`
}

// SessionSummary is the result of a finished SessionWorkflow.
type SessionSummary struct {
	SessionID     string   `json:"sessionId"`
	FinalScreen   Screen   `json:"finalScreen"`
	Events        int      `json:"events"`
	EndReason     string   `json:"endReason"`
	OTPReference  string   `json:"otpReference,omitempty"`
	ConsentHandle string   `json:"consentHandle,omitempty"`
	LinkedSources []string `json:"linkedSources,omitempty"`
}

// OTPRequest is the input to the SendOTP activity.
type OTPRequest struct {
	SessionID string `json:"sessionId"`
	Mobile    string `json:"mobile"`
}

// ConsentRequest is the input to the RecordConsent activity.
type ConsentRequest struct {
	SessionID    string `json:"sessionId"`
	BusinessName string `json:"businessName"`
	GSTIN        string `json:"gstin"`
	PAN          string `json:"pan"`
}

// ConsentArtefact is the output of the RecordConsent activity.
type ConsentArtefact struct {
	Handle    string    `json:"handle"`
	GrantedAt time.Time `json:"grantedAt"`
}

// DataSourceRequest is the input to the LinkDataSource activity.
type DataSourceRequest struct {
	SessionID string `json:"sessionId"`
	Provider  string `json:"provider"`
}
