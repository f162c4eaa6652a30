package capture

import (
	"bytes"
	"context"
	"errors"

	"github.com/mesh-intelligence/casemap/internal/wire"
	"github.com/mesh-intelligence/casemap/pkg/types"
)

// Verification is the outcome of replaying one capture through the
// marshaling engine.
type Verification struct {
	CaptureID string `json:"capture_id"`

	// RequestStable is true when the request survives a second
	// decode/encode pass unchanged. RequestExact is true when the first pass
	// already reproduces the captured bytes.
	RequestStable bool   `json:"request_stable"`
	RequestExact  bool   `json:"request_exact"`
	RequestErr    string `json:"request_error,omitempty"`

	ResponseEntities int    `json:"response_entities"`
	ResponseErr      string `json:"response_error,omitempty"`
}

// OK reports whether the capture still matches the wire contract. A
// request must replay to the captured bytes.
func (v Verification) OK() bool {
	return v.RequestErr == "" && v.RequestStable && v.RequestExact && v.ResponseErr == ""
}

// Detail describes why the capture failed, or returns "" when it passed.
func (v Verification) Detail() string {
	switch {
	case v.RequestErr != "":
		return v.RequestErr
	case v.ResponseErr != "":
		return v.ResponseErr
	case !v.RequestStable:
		return "request not stable"
	case !v.RequestExact:
		return "request replay differs from capture"
	}
	return ""
}

// Verify replays the capture with the given id.
func (s *Store) Verify(ctx context.Context, id string) (Verification, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Verification{}, err
	}
	return VerifyCapture(c), nil
}

// VerifyCapture checks a capture without touching the store. Empty request
// and response bodies pass.
func VerifyCapture(c Capture) Verification {
	v := Verification{CaptureID: c.ID, RequestStable: true, RequestExact: true}

	if req := []byte(c.Request); len(bytes.TrimSpace(req)) > 0 {
		first, err := reencode(req)
		if err != nil {
			v.RequestErr = err.Error()
			v.RequestStable, v.RequestExact = false, false
		} else {
			second, err := reencode(first)
			v.RequestStable = err == nil && bytes.Equal(first, second)
			v.RequestExact = bytes.Equal(first, req)
		}
	}

	if resp := []byte(c.Response); len(bytes.TrimSpace(resp)) > 0 {
		n, err := parseResponse(resp)
		if err != nil {
			v.ResponseErr = err.Error()
		}
		v.ResponseEntities = n
	}
	return v
}

func reencode(data []byte) ([]byte, error) {
	e, err := wire.Decode(data, wire.DecodeOptions{Request: true})
	if err != nil {
		return nil, err
	}
	return wire.Encode(e)
}

// parseResponse decodes a listing or a single entity and returns how many
// entities it held.
func parseResponse(data []byte) (int, error) {
	list, err := wire.DecodeList(data, wire.DecodeOptions{})
	if err == nil {
		return len(list.Entities), nil
	}
	if !errors.Is(err, types.ErrInvalidDocument) {
		return 0, err
	}
	if _, err := wire.Decode(data, wire.DecodeOptions{}); err != nil {
		return 0, err
	}
	return 1, nil
}
