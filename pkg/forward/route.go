// Package forward implements the generic proxy handler: one Route describes
// an inbound endpoint, the backend path it forwards to and the payloads used
// when forwarding fails.
package forward

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ErrMissingParam matches every *ParamError.
var ErrMissingParam = errors.New("missing required parameter")

// ParamError reports a missing required query parameter.
type ParamError struct {
	Param string
}

func (e *ParamError) Error() string {
	return e.Param + " parameter is required"
}

func (e *ParamError) Is(target error) bool {
	return target == ErrMissingParam
}

// MockRequest is what a mock generator sees of the inbound request.
type MockRequest struct {
	PathValues map[string]string
	Query      url.Values
	Body       []byte
}

// PathValue returns the named path wildcard, or "".
func (m MockRequest) PathValue(name string) string {
	return m.PathValues[name]
}

// Route describes one proxied endpoint.
type Route struct {
	// Name identifies the route in logs and metric labels.
	Name string

	// Method is the inbound HTTP method, mirrored on the outbound call.
	Method string

	// Path is the inbound ServeMux path and the backend path template.
	// {name} wildcards are substituted, path-escaped, from the request.
	Path string

	// Query builds the outbound query. Nil forwards no query.
	Query func(r *http.Request) url.Values

	// Validate rejects the request with 400 before any outbound call.
	Validate func(r *http.Request) error

	// ForwardBody forwards the inbound JSON body verbatim.
	ForwardBody bool

	// APIKey attaches the x-api-key header.
	APIKey bool

	// Mock builds the development-mode payload.
	Mock func(MockRequest) any

	// ErrorMessage is the message of the 500 response.
	ErrorMessage string

	// ErrorBody builds the 500 payload. Defaults to {"error": msg}.
	ErrorBody func(msg string) any
}

// Pattern returns the ServeMux pattern, e.g. "GET /koenoto/{id}".
func (rt Route) Pattern() string {
	return rt.Method + " " + rt.Path
}

// Wildcards returns the names of the {name} segments in Path.
func (rt Route) Wildcards() []string {
	var names []string
	for _, seg := range strings.Split(rt.Path, "/") {
		if name, ok := wildcard(seg); ok {
			names = append(names, name)
		}
	}
	return names
}

// BackendPath expands Path with the request's path values.
func (rt Route) BackendPath(r *http.Request) string {
	segs := strings.Split(rt.Path, "/")
	for i, seg := range segs {
		if name, ok := wildcard(seg); ok {
			segs[i] = url.PathEscape(r.PathValue(name))
		}
	}
	return strings.Join(segs, "/")
}

func wildcard(seg string) (string, bool) {
	if len(seg) < 3 || seg[0] != '{' || seg[len(seg)-1] != '}' {
		return "", false
	}
	return strings.TrimSuffix(seg[1:len(seg)-1], "..."), true
}

// RequireQuery returns a validator that fails with a *ParamError for the
// first named query parameter that is absent or empty.
func RequireQuery(names ...string) func(*http.Request) error {
	return func(r *http.Request) error {
		q := r.URL.Query()
		for _, name := range names {
			if q.Get(name) == "" {
				return &ParamError{Param: name}
			}
		}
		return nil
	}
}

// QueryWithDefaults returns a query builder that forwards the named
// parameters, substituting the default when one is absent or empty.
// Parameters not named are dropped.
func QueryWithDefaults(defaults map[string]string) func(*http.Request) url.Values {
	return func(r *http.Request) url.Values {
		in := r.URL.Query()
		out := make(url.Values, len(defaults))
		for name, def := range defaults {
			v := in.Get(name)
			if v == "" {
				v = def
			}
			out.Set(name, v)
		}
		return out
	}
}

// PassQuery returns a query builder that forwards only the named parameters,
// skipping any that are absent.
func PassQuery(names ...string) func(*http.Request) url.Values {
	return func(r *http.Request) url.Values {
		in := r.URL.Query()
		out := make(url.Values, len(names))
		for _, name := range names {
			if v := in.Get(name); v != "" {
				out.Set(name, v)
			}
		}
		return out
	}
}
