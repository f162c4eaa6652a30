package types

import "time"

// CallResult describes one exchange with the remote service. Client
// operations return it instead of storing it on the entity.
type CallResult struct {
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	EntityType string        `json:"entity_type"`
	EntityID   int64         `json:"entity_id,omitempty"`
	StatusCode int           `json:"status_code"`
	Request    []byte        `json:"request,omitempty"`
	Response   []byte        `json:"response,omitempty"`
	Err        string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// OK reports whether the call reached the service and got a 2xx status.
func (r CallResult) OK() bool {
	return r.Err == "" && r.StatusCode >= 200 && r.StatusCode < 300
}

// List is one page of a bulk listing.
type List struct {
	Total    int       `json:"total"`
	Returned int       `json:"returned"`
	PageSize int       `json:"page_size"`
	Page     int       `json:"page"`
	Entities []*Entity `json:"entities"`
}
