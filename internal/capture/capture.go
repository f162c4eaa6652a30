// Package capture keeps a local record of wire exchanges with the service.
//
// Captures live in a SQLite database that is rebuilt from captures.jsonl
// every time the store is opened; the JSONL file is the source of truth and
// is rewritten atomically after each change. A capture can be re-verified
// against the current marshaling engine, which is how wire-contract drift is
// detected.
package capture

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

// Capture is one recorded exchange.
type Capture struct {
	ID         string    `json:"capture_id"`
	CapturedAt time.Time `json:"captured_at"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
}

// FromCallResult converts a client call result into a capture. The id and
// timestamp are assigned when the capture is stored.
func FromCallResult(r types.CallResult) Capture {
	return Capture{
		Method:     r.Method,
		URL:        r.URL,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		StatusCode: r.StatusCode,
		Request:    string(r.Request),
		Response:   string(r.Response),
		Error:      r.Err,
		DurationMS: r.Duration.Milliseconds(),
	}
}

// Filter selects captures in List. Zero values match everything.
type Filter struct {
	EntityType string
	Method     string
	FailedOnly bool
	Limit      int
}

// generateID returns a UUID v7, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
