package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"mitra-credit/shared"
)

// LinkDataSource links an additional data provider (marketplace, payment
// gateway, utility biller) to the business. Linking is simulated.
// Idempotency: naturally idempotent, linking twice yields a fresh reference
// for the same link.
func (a *Activities) LinkDataSource(ctx context.Context, req shared.DataSourceRequest) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Linking data source", "sessionId", req.SessionID, "provider", req.Provider)

	if !a.knownProvider(req.Provider) {
		logger.Info("Rejected unknown data provider", "provider", req.Provider)
		return "", temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("unknown data provider %q", req.Provider),
			shared.ErrTypeUnknownDataProvider,
			nil,
		)
	}

	reference := fmt.Sprintf("LINK-%s-%s", req.Provider, a.newID())
	logger.Info("Data source linked", "reference", reference)

	return reference, nil
}

func (a *Activities) knownProvider(id string) bool {
	if len(a.Providers) == 0 {
		return true
	}
	for _, p := range a.Providers {
		if p == id {
			return true
		}
	}
	return false
}
