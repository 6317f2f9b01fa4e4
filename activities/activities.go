package activities

import (
	"time"

	"github.com/google/uuid"
)

// Activities carries the simulated integrations. The activity worker
// registers one configured value with RegisterActivity, which picks up every
// exported method. Nil Now and NewID fall back to the wall clock and random
// ids.
type Activities struct {
	// Providers lists the data source ids LinkDataSource accepts. Empty accepts any.
	Providers []string

	Now   func() time.Time
	NewID func() string
}

func (a *Activities) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *Activities) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}
