package casemap

import (
	"context"
	"net/url"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

// Request is one outbound call. Path is relative to the service root, for
// example "ticket" or "ticket/42".
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// URL returns the path with the encoded query appended.
func (r Request) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Response is the service's answer to a Request.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport delivers requests to the service. An error means the request
// did not complete; HTTP-level failures come back as a status code.
type Transport interface {
	Send(ctx context.Context, req Request) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (Response, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Recorder receives the result of every call the client completes.
type Recorder interface {
	Record(ctx context.Context, r types.CallResult) error
}
