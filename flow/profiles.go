package flow

import "mitra-credit/shared"

// Session defaults written at start.
const (
	DefaultCoins = 250
	DefaultLevel = "Bronze"
)

// Fixed credit figures assigned once account aggregator consent is given.
const (
	ConsentCreditLimit    int64 = 1000000
	ConsentAvailableLimit int64 = 850000
	ConsentCreditScore          = 762
)

// InitialProfile is the profile every session starts with.
func InitialProfile() shared.Profile {
	return shared.Profile{
		Coins: shared.Ptr(DefaultCoins),
		Level: shared.Ptr(DefaultLevel),
	}
}

// ConsentProfile is the credit fill applied on aa-consent --next--> dashboard.
func ConsentProfile() shared.Profile {
	return shared.Profile{
		CreditLimit:    shared.Ptr(ConsentCreditLimit),
		AvailableLimit: shared.Ptr(ConsentAvailableLimit),
		CreditScore:    shared.Ptr(ConsentCreditScore),
	}
}

// DemoProfile is the bulk fill applied on welcome --skip--> dashboard.
func DemoProfile() shared.Profile {
	p := ConsentProfile()
	p.Mobile = shared.Ptr("+91 98765 43210")
	p.BusinessName = shared.Ptr("Demo Enterprises")
	p.GSTIN = shared.Ptr("29ABCDE1234F1Z5")
	p.PAN = shared.Ptr("ABCDE1234F")
	p.Coins = shared.Ptr(DefaultCoins)
	p.Level = shared.Ptr("Gold")
	return p
}
