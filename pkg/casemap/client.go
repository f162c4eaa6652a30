package casemap

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/casemap/internal/wire"
	"github.com/mesh-intelligence/casemap/pkg/types"
)

// Client runs entity operations over a Transport. A Client holds no
// per-entity state and is safe for concurrent use when its Transport and
// Recorder are.
type Client struct {
	transport Transport
	recorder  Recorder
	logger    *slog.Logger
	minimal   bool
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for call and decode records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sends every completed call to r.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithMinimalLoad parses listings without unselected options and
// dependency records. Single-entity reads stay fully loaded.
func WithMinimalLoad() Option {
	return func(c *Client) { c.minimal = true }
}

// New returns a client that sends requests through t.
func New(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create sends e as a new entity. On success the id assigned by the service
// is copied onto e and e is marked clean. Serialization errors abort before
// the transport is called.
func (c *Client) Create(ctx context.Context, e *types.Entity) (res types.CallResult, err error) {
	body, err := c.encode(e)
	if err != nil {
		return res, fmt.Errorf("create: %w", err)
	}
	req := Request{Method: http.MethodPost, Path: entityPath(e.Type, 0), Body: body}
	defer func() { c.finish(ctx, &res, err) }()

	res, resp, err := c.do(ctx, req, e.Type, 0)
	if err != nil {
		return res, err
	}
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		created, derr := wire.Decode(resp.Body, c.decodeOptions(false))
		if derr != nil {
			return res, fmt.Errorf("create %s: parse response: %w", e.Type, derr)
		}
		if created.ID > 0 {
			e.ID = created.ID
			res.EntityID = created.ID
		}
	}
	e.MarkClean()
	return res, nil
}

// Update sends the changed state of an existing entity and marks it clean.
func (c *Client) Update(ctx context.Context, e *types.Entity) (res types.CallResult, err error) {
	body, err := c.encode(e)
	if err != nil {
		return res, fmt.Errorf("update: %w", err)
	}
	if e.ID <= 0 {
		return res, fmt.Errorf("update %s: %w", e.Type, types.ErrMissingID)
	}
	req := Request{Method: http.MethodPut, Path: entityPath(e.Type, e.ID), Body: body}
	defer func() { c.finish(ctx, &res, err) }()

	res, _, err = c.do(ctx, req, e.Type, e.ID)
	if err != nil {
		return res, err
	}
	e.MarkClean()
	return res, nil
}

// Get fetches one entity. The returned entity is fully loaded.
func (c *Client) Get(ctx context.Context, entityType string, id int64) (e *types.Entity, res types.CallResult, err error) {
	if id <= 0 {
		return nil, res, fmt.Errorf("get %s: %w", entityType, types.ErrMissingID)
	}
	req := Request{Method: http.MethodGet, Path: entityPath(entityType, id)}
	defer func() { c.finish(ctx, &res, err) }()

	res, resp, err := c.do(ctx, req, entityType, id)
	if err != nil {
		return nil, res, err
	}
	e, err = wire.Decode(resp.Body, c.decodeOptions(false))
	if err != nil {
		return nil, res, fmt.Errorf("get %s/%d: %w", entityType, id, err)
	}
	return e, res, nil
}

// List fetches one page of entities of a type. Query is passed through
// unchanged; building it is the caller's concern.
func (c *Client) List(ctx context.Context, entityType string, query url.Values) (list *types.List, res types.CallResult, err error) {
	req := Request{Method: http.MethodGet, Path: entityPath(entityType, 0), Query: query}
	defer func() { c.finish(ctx, &res, err) }()

	res, resp, err := c.do(ctx, req, entityType, 0)
	if err != nil {
		return nil, res, err
	}
	list, err = wire.DecodeList(resp.Body, c.decodeOptions(c.minimal))
	if err != nil {
		return nil, res, fmt.Errorf("list %s: %w", entityType, err)
	}
	return list, res, nil
}

// Delete removes one entity.
func (c *Client) Delete(ctx context.Context, entityType string, id int64) (res types.CallResult, err error) {
	if id <= 0 {
		return res, fmt.Errorf("delete %s: %w", entityType, types.ErrMissingID)
	}
	req := Request{Method: http.MethodDelete, Path: entityPath(entityType, id)}
	defer func() { c.finish(ctx, &res, err) }()

	res, _, err = c.do(ctx, req, entityType, id)
	return res, err
}

func (c *Client) encode(e *types.Entity) ([]byte, error) {
	if e == nil {
		return nil, types.ErrUnknownEntityType
	}
	return wire.Encode(e)
}

func (c *Client) decodeOptions(minimal bool) wire.DecodeOptions {
	return wire.DecodeOptions{Minimal: minimal, Logger: c.logger}
}

// do sends req and classifies the outcome. A non-2xx status is returned as
// an error wrapping types.ErrRemote.
func (c *Client) do(ctx context.Context, req Request, entityType string, id int64) (types.CallResult, Response, error) {
	res := types.CallResult{
		Method:     req.Method,
		URL:        req.URL(),
		EntityType: entityType,
		EntityID:   id,
		Request:    req.Body,
	}

	start := c.now()
	resp, err := c.transport.Send(ctx, req)
	res.Duration = c.now().Sub(start)
	res.StatusCode = resp.StatusCode
	res.Response = resp.Body

	if err != nil {
		return res, resp, fmt.Errorf("%s %s: %w", req.Method, res.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return res, resp, fmt.Errorf("%s %s: status %d: %w", req.Method, res.URL, resp.StatusCode, types.ErrRemote)
	}
	return res, resp, nil
}

// finish stamps the error on res, logs the call and hands it to the
// recorder. Recorder failures are logged, never returned.
func (c *Client) finish(ctx context.Context, res *types.CallResult, err error) {
	if err != nil {
		res.Err = err.Error()
	}
	c.logger.Debug("call",
		"method", res.Method,
		"url", res.URL,
		"status", res.StatusCode,
		"duration", res.Duration,
		"error", res.Err,
	)
	if c.recorder == nil {
		return
	}
	if rerr := c.recorder.Record(ctx, *res); rerr != nil {
		c.logger.Warn("record call", "url", res.URL, "error", rerr)
	}
}

// entityPath returns the lowercased type, followed by the id when id > 0.
func entityPath(entityType string, id int64) string {
	p := strings.ToLower(entityType)
	if id > 0 {
		p += "/" + strconv.FormatInt(id, 10)
	}
	return p
}
