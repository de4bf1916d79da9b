package koenote

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/koenote/koenote-proxy/pkg/backend"
	"github.com/koenote/koenote-proxy/pkg/config"
	"github.com/koenote/koenote-proxy/pkg/forward"
	"github.com/koenote/koenote-proxy/pkg/mockdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(int) int     { return r.n }

type call struct {
	route  string
	method string
	target string
	body   string
}

// calls holds one representative request per route.
var calls = []call{
	{RouteRecordingURL, http.MethodGet, "/koenote/recording/2/url", ""},
	{RouteRecordingsList, http.MethodGet, "/koenote/recordings", ""},
	{RouteRecordingGet, http.MethodGet, "/koenoto/abc", ""},
	{RouteRecordingDel, http.MethodDelete, "/koenoto/abc", ""},
	{RouteProcessAudio, http.MethodPost, "/koenoto/process-audio", `{"key":"uploads/a.webm"}`},
	{RouteProcessStatus, http.MethodGet, "/koenoto/process-status?executionArn=arn%3A1", ""},
	{RouteUserRecordings, http.MethodGet, "/koenoto?user_id=abc", ""},
	{RouteCreate, http.MethodPost, "/koenoto", `{"title":"会議"}`},
	{RouteSave, http.MethodPost, "/koenoto/save-recording", `{"recording":{"id":"r1","title":"x"}}`},
	{RouteUpload, http.MethodPost, "/koenoto/upload-audio", `{"audio":"UklGRg=="}`},
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func newMux(t *testing.T, baseURL string, mode config.Mode, r mockdata.Rand) *http.ServeMux {
	t.Helper()
	gen := mockdata.New(
		mockdata.WithClock(func() time.Time { return fixedNow }),
		mockdata.WithRand(r),
		mockdata.WithLocation(time.UTC),
	)
	mux := http.NewServeMux()
	forward.Mount(mux, Routes(gen), backend.New(baseURL, "test-key"), forward.WithMode(mode))
	return mux
}

func do(mux http.Handler, c call) *httptest.ResponseRecorder {
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(c.method, c.target, body))
	return rec
}

// downURL returns the address of a server that is no longer listening.
func downURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

func TestRoutes_Table(t *testing.T) {
	t.Parallel()

	routes := Routes(nil)
	require.Len(t, routes, 10)

	patterns := map[string]bool{}
	for _, rt := range routes {
		assert.False(t, patterns[rt.Pattern()], "duplicate pattern %s", rt.Pattern())
		patterns[rt.Pattern()] = true
		assert.NotEmpty(t, rt.ErrorMessage, rt.Name)
		assert.NotNil(t, rt.Mock, rt.Name)
		assert.Contains(t, MockSchemas, rt.Name)
	}

	noKey := map[string]bool{RouteProcessAudio: true, RouteProcessStatus: true}
	for _, rt := range routes {
		assert.Equal(t, !noKey[rt.Name], rt.APIKey, rt.Name)
	}

	_, ok := Find(routes, RouteSave)
	assert.True(t, ok)
	_, ok = Find(routes, "missing")
	assert.False(t, ok)
}

func TestRoutes_PassThrough(t *testing.T) {
	t.Parallel()

	type seen struct {
		path   string
		query  string
		body   string
		hasKey bool
	}
	var mu sync.Mutex
	got := map[string]seen{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_, hasKey := r.Header[http.CanonicalHeaderKey(backend.HeaderAPIKey)]
		mu.Lock()
		got[r.Method+" "+r.URL.Path] = seen{r.URL.EscapedPath(), r.URL.RawQuery, string(data), hasKey}
		mu.Unlock()
		_, _ = io.WriteString(w, `{"from":"backend","path":"`+r.URL.Path+`"}`)
	}))
	t.Cleanup(srv.Close)

	for _, mode := range []config.Mode{config.ModeProduction, config.ModeDevelopment} {
		mux := newMux(t, srv.URL, mode, nil)
		for _, c := range calls {
			rec := do(mux, c)
			require.Equal(t, http.StatusOK, rec.Code, c.route)
			path := strings.SplitN(c.target, "?", 2)[0]
			assert.JSONEq(t, `{"from":"backend","path":"`+path+`"}`, rec.Body.String(), c.route)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "user_id=abc", got["GET /koenoto"].query)
	assert.Equal(t, "executionArn=arn%3A1", got["GET /koenoto/process-status"].query)
	assert.Equal(t, `{"recording":{"id":"r1","title":"x"}}`, got["POST /koenoto/save-recording"].body)
	assert.False(t, got["POST /koenoto/process-audio"].hasKey)
	assert.False(t, got["GET /koenoto/process-status"].hasKey)
	assert.True(t, got["GET /koenote/recordings"].hasKey)
	assert.True(t, got["DELETE /koenoto/abc"].hasKey)
}

func TestRoutes_UserIDDefault(t *testing.T) {
	t.Parallel()

	queries := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	rec := do(newMux(t, srv.URL, config.ModeProduction, nil), call{method: http.MethodGet, target: "/koenoto"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_id=default", <-queries)
}

func TestRoutes_ProductionFailures(t *testing.T) {
	t.Parallel()

	mux := newMux(t, downURL(t), config.ModeProduction, nil)
	want := map[string]string{
		RouteRecordingURL:   `{"error":"Failed to fetch audio URL"}`,
		RouteRecordingsList: `{"error":"Failed to fetch recordings","recordings":[]}`,
		RouteRecordingGet:   `{"error":"Failed to fetch recording details"}`,
		RouteRecordingDel:   `{"error":"Failed to delete recording"}`,
		RouteProcessAudio:   `{"error":"Failed to process audio"}`,
		RouteProcessStatus:  `{"error":"Failed to fetch processing status"}`,
		RouteUserRecordings: `{"error":"Failed to fetch recordings"}`,
		RouteCreate:         `{"error":"Failed to create recording"}`,
		RouteSave:           `{"error":"Failed to save recording"}`,
		RouteUpload:         `{"error":"Failed to upload audio"}`,
	}
	for _, c := range calls {
		rec := do(mux, c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, c.route)
		assert.JSONEq(t, want[c.route], rec.Body.String(), c.route)
	}
}

func TestRoutes_DevelopmentMocksMatchSchemas(t *testing.T) {
	t.Parallel()

	for _, r := range []mockdata.Rand{fixedRand{f: 0.9}, fixedRand{f: 0.1, n: 37}} {
		mux := newMux(t, downURL(t), config.ModeDevelopment, r)
		for _, c := range calls {
			rec := do(mux, c)
			require.Equal(t, http.StatusOK, rec.Code, c.route)

			var payload any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), c.route)
			assert.NoError(t, ValidatePayload(MockSchemas[c.route], payload), c.route)
		}
	}
}

func TestRoutes_DevelopmentScenarios(t *testing.T) {
	t.Parallel()

	mux := newMux(t, downURL(t), config.ModeDevelopment, fixedRand{f: 0.1, n: 5})

	t.Run("signed url for recording 2", func(t *testing.T) {
		t.Parallel()
		rec := do(mux, call{method: http.MethodGet, target: "/koenote/recording/2/url"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"signedUrl":"https://actions.google.com/sounds/v1/alarms/beep_short.ogg"}`, rec.Body.String())
	})

	t.Run("process status without executionArn", func(t *testing.T) {
		t.Parallel()
		rec := do(mux, call{method: http.MethodGet, target: "/koenoto/process-status"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"executionArn parameter is required"}`, rec.Body.String())
	})

	t.Run("save keeps recording id", func(t *testing.T) {
		t.Parallel()
		rec := do(mux, call{method: http.MethodPost, target: "/koenoto/save-recording", body: `{"recording":{"id":"r1","title":"x"}}`})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"recording":{"id":"r1","title":"x"}}`, rec.Body.String())
	})

	t.Run("user recordings carry user_id", func(t *testing.T) {
		t.Parallel()
		rec := do(mux, call{method: http.MethodGet, target: "/koenoto?user_id=abc"})
		require.Equal(t, http.StatusOK, rec.Code)

		var recs []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
		require.Len(t, recs, 2)
		assert.Equal(t, "1", recs[0]["id"])
		assert.Equal(t, "2", recs[1]["id"])
		for _, r := range recs {
			assert.Equal(t, "abc", r["user_id"])
		}
	})

	t.Run("running status", func(t *testing.T) {
		t.Parallel()
		rec := do(mux, call{method: http.MethodGet, target: "/koenoto/process-status?executionArn=x"})
		assert.JSONEq(t, `{"status":"running","message":"音声処理中...","percentComplete":5}`, rec.Body.String())
	})

	t.Run("create with malformed body", func(t *testing.T) {
		t.Parallel()
		rec := do(mux, call{method: http.MethodPost, target: "/koenoto", body: `{oops`})
		require.Equal(t, http.StatusOK, rec.Code)

		var res struct {
			Success bool           `json:"success"`
			Item    map[string]any `json:"item"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Success)
		assert.Equal(t, "mock-1741944413589", res.Item["id"])
		assert.Equal(t, "Mock Recording", res.Item["title"])
	})
}

func TestRoutes_TimestampIDsDifferAcrossCalls(t *testing.T) {
	t.Parallel()

	var tick int64
	var mu sync.Mutex
	gen := mockdata.New(mockdata.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return fixedNow.Add(time.Duration(tick) * time.Millisecond)
	}))
	mux := http.NewServeMux()
	forward.Mount(mux, Routes(gen), backend.New(downURL(t), ""), forward.WithMode(config.ModeDevelopment))

	c := call{method: http.MethodPost, target: "/koenoto/upload-audio", body: `{}`}
	first, second := do(mux, c).Body.String(), do(mux, c).Body.String()
	assert.NotEqual(t, first, second)
	assert.Contains(t, first, `"key":"uploads/audio-`)
}
