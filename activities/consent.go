package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"mitra-credit/shared"
)

// RecordConsent registers the account aggregator data-sharing consent for
// the business. The aggregator is simulated: a consent handle is minted
// locally. Credit figures are not fetched here; the session assigns them.
func (a *Activities) RecordConsent(ctx context.Context, req shared.ConsentRequest) (shared.ConsentArtefact, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Recording AA consent",
		"sessionId", req.SessionID,
		"businessName", req.BusinessName,
		"gstin", req.GSTIN,
	)

	artefact := shared.ConsentArtefact{
		Handle:    fmt.Sprintf("AA-%s", a.newID()),
		GrantedAt: a.now(),
	}
	logger.Info("AA consent recorded", "handle", artefact.Handle)

	return artefact, nil
}
