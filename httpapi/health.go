package httpapi

import (
	"context"

	"go.temporal.io/sdk/client"
)

// HealthService defines behaviour for readiness checks.
type HealthService interface {
	Check(ctx context.Context) error
}

// TemporalHealthService checks that the Temporal frontend answers.
type TemporalHealthService struct {
	Client client.Client
}

// Check implements the HealthService interface.
func (s TemporalHealthService) Check(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	_, err := s.Client.CheckHealth(ctx, &client.CheckHealthRequest{})
	return err
}
