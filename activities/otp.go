package activities

import (
	"context"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"

	"mitra-credit/shared"
)

// SendOTP hands the one-time password for the entered mobile number to the
// SMS gateway. There is no real gateway: the dispatch is logged and a
// reference returned. Not idempotent against a real gateway; pass the
// reference as the provider's idempotency key there.
func (a *Activities) SendOTP(ctx context.Context, req shared.OTPRequest) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Dispatching OTP",
		"sessionId", req.SessionID,
		"mobile", MaskMobile(req.Mobile),
	)

	reference := fmt.Sprintf("OTP-%s", a.newID())
	logger.Info("OTP dispatched", "reference", reference)

	return reference, nil
}

// MaskMobile keeps only the last four digits of a phone number.
func MaskMobile(mobile string) string {
	digits := 0
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	var b strings.Builder
	seen := 0
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= digits-4 {
				b.WriteRune('*')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
