package forward

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/koenote/koenote-proxy/pkg/backend"
	"github.com/koenote/koenote-proxy/pkg/config"
	"github.com/koenote/koenote-proxy/pkg/httputil"
	"github.com/koenote/koenote-proxy/pkg/logging"
	"github.com/koenote/koenote-proxy/pkg/metrics"
)

// DefaultMaxBodySize bounds the inbound body read for forwarded routes (10MB).
const DefaultMaxBodySize = 10 * 1024 * 1024

// ErrInvalidBody is returned when a forwarded inbound body is not JSON.
var ErrInvalidBody = errors.New("request body is not valid JSON")

// Backend sends one outbound call. *backend.Client implements it.
type Backend interface {
	Do(ctx context.Context, req backend.Request) (json.RawMessage, error)
}

// Handler serves one Route.
type Handler struct {
	route       Route
	backend     Backend
	mode        config.Mode
	log         *slog.Logger
	metrics     *metrics.ProxyMetrics
	maxBodySize int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithMode sets the runtime mode. Only development enables mock fallback.
func WithMode(m config.Mode) Option {
	return func(h *Handler) {
		h.mode = m
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		h.log = logging.OrNop(log)
	}
}

// WithMetrics records route outcomes and backend latency.
func WithMetrics(m *metrics.ProxyMetrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithMaxBodySize bounds the inbound body read.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}

// NewHandler creates a Handler for route. The mode defaults to production.
func NewHandler(route Route, b Backend, opts ...Option) *Handler {
	h := &Handler{
		route:       route,
		backend:     b,
		mode:        config.ModeProduction,
		log:         logging.Nop(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Route returns the route served by h.
func (h *Handler) Route() Route {
	return h.route
}

// Mount registers a Handler for every route on mux.
func Mount(mux *http.ServeMux, routes []Route, b Backend, opts ...Option) {
	for _, rt := range routes {
		mux.Handle(rt.Pattern(), NewHandler(rt, b, opts...))
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.route.Validate != nil {
		if err := h.route.Validate(r); err != nil {
			h.metrics.ObserveRoute(h.route.Name, metrics.OutcomeRejected)
			httputil.WriteBadRequest(w, err.Error())
			return
		}
	}

	var query url.Values
	if h.route.Query != nil {
		query = h.route.Query(r)
	}

	mreq := MockRequest{Query: query}
	if names := h.route.Wildcards(); len(names) > 0 {
		mreq.PathValues = make(map[string]string, len(names))
		for _, name := range names {
			mreq.PathValues[name] = r.PathValue(name)
		}
	}

	var body []byte
	if h.route.ForwardBody {
		var err error
		body, err = h.readBody(w, r)
		mreq.Body = body
		if err != nil {
			h.fail(w, mreq, err)
			return
		}
	}

	start := time.Now()
	resp, err := h.backend.Do(r.Context(), backend.Request{
		Method:     h.route.Method,
		Path:       h.route.BackendPath(r),
		Query:      query,
		Body:       body,
		WithAPIKey: h.route.APIKey,
	})
	h.metrics.ObserveBackend(h.route.Name, time.Since(start))
	if err != nil {
		h.fail(w, mreq, err)
		return
	}

	h.metrics.ObserveRoute(h.route.Name, metrics.OutcomeForwarded)
	httputil.WriteRawJSON(w, http.StatusOK, resp)
}

// readBody reads the inbound body up to maxBodySize and checks it is JSON.
// The bytes read are returned even on error so mocks can inspect them.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, ErrInvalidBody
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		return data, fmt.Errorf("failed to read request body: %w", err)
	}
	if !json.Valid(data) {
		return data, ErrInvalidBody
	}
	return data, nil
}

// fail answers a forwarding failure with the mock in development mode and
// the route's error body otherwise.
func (h *Handler) fail(w http.ResponseWriter, mreq MockRequest, err error) {
	attrs := []any{"route", h.route.Name, "error", err}
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs, "status", statusErr.StatusCode)
	}
	h.log.Error("proxy error", attrs...)

	if h.mode.IsDevelopment() && h.route.Mock != nil {
		h.log.Info("returning mock response", "route", h.route.Name)
		h.metrics.ObserveRoute(h.route.Name, metrics.OutcomeMock)
		httputil.WriteOK(w, h.route.Mock(mreq))
		return
	}

	h.metrics.ObserveRoute(h.route.Name, metrics.OutcomeError)
	if h.route.ErrorBody != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, h.route.ErrorBody(h.route.ErrorMessage))
		return
	}
	httputil.WriteInternalError(w, h.route.ErrorMessage)
}
