package meeting

import (
	"context"
	"time"
)

// Details is the result of provisioning a virtual meeting resource.
type Details struct {
	Link       string `json:"link"`
	ResourceID string `json:"resourceId"`
}

// Window is the absolute time span the meeting covers.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Provisioner creates and deletes virtual meeting resources on an external
// vendor. Calls are fallible and the vendor guarantees no idempotency, so a
// caller must never issue Create twice for one logical booking.
type Provisioner interface {
	Create(ctx context.Context, w Window, attendees []string, summary, description string) (*Details, error)
	Delete(ctx context.Context, resourceID string) error
}
