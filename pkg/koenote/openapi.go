package koenote

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/koenote/koenote-proxy/pkg/httputil"
)

//go:embed openapi.yaml
var openAPISource []byte

var loadOpenAPI = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISource)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
})

// OpenAPI returns the parsed description of the proxy API. The document is
// parsed once and shared; callers must not modify it.
func OpenAPI() (*openapi3.T, error) {
	return loadOpenAPI()
}

// OpenAPIJSON returns the description encoded as JSON.
func OpenAPIJSON() ([]byte, error) {
	doc, err := OpenAPI()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// OpenAPIHandler serves the description as JSON.
func OpenAPIHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data, err := OpenAPIJSON()
		if err != nil {
			httputil.WriteInternalError(w, "OpenAPI document unavailable")
			return
		}
		httputil.WriteRawJSON(w, http.StatusOK, data)
	})
}

// Schema returns a named component schema.
func Schema(name string) (*openapi3.Schema, error) {
	doc, err := OpenAPI()
	if err != nil {
		return nil, err
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return ref.Value, nil
}

// ValidatePayload checks that v, once encoded as JSON, matches the named
// component schema.
func ValidatePayload(name string, v any) error {
	schema, err := Schema(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	if err := schema.VisitJSON(decoded); err != nil {
		return fmt.Errorf("payload does not match %s: %w", name, err)
	}
	return nil
}
