// Package koenote defines the proxied koenote endpoints and their OpenAPI
// description.
package koenote

import (
	"net/http"

	"github.com/koenote/koenote-proxy/pkg/api/types"
	"github.com/koenote/koenote-proxy/pkg/forward"
	"github.com/koenote/koenote-proxy/pkg/mockdata"
)

// Route names, used in logs and metric labels.
const (
	RouteRecordingURL   = "recording.url"
	RouteRecordingsList = "recordings.list"
	RouteRecordingGet   = "koenoto.get"
	RouteRecordingDel   = "koenoto.delete"
	RouteProcessAudio   = "process.audio"
	RouteProcessStatus  = "process.status"
	RouteUserRecordings = "koenoto.list"
	RouteCreate         = "koenoto.create"
	RouteSave           = "koenoto.save"
	RouteUpload         = "koenoto.upload"
)

// DefaultUserID is forwarded when GET /koenoto has no user_id.
const DefaultUserID = "default"

// MockSchemas maps each route to the component schema its mock must match.
var MockSchemas = map[string]string{
	RouteRecordingURL:   "SignedURL",
	RouteRecordingsList: "RecordingList",
	RouteRecordingGet:   "RecordingDetail",
	RouteRecordingDel:   "DeleteResult",
	RouteProcessAudio:   "ProcessStarted",
	RouteProcessStatus:  "ProcessStatus",
	RouteUserRecordings: "RecordingDetailList",
	RouteCreate:         "CreateResult",
	RouteSave:           "SaveResult",
	RouteUpload:         "UploadResult",
}

// Routes returns the proxied endpoints. Mocks are produced by gen.
func Routes(gen *mockdata.Generator) []forward.Route {
	if gen == nil {
		gen = mockdata.New()
	}

	return []forward.Route{
		{
			Name:   RouteRecordingURL,
			Method: http.MethodGet,
			Path:   "/koenote/recording/{id}/url",
			APIKey: true,
			Mock: func(m forward.MockRequest) any {
				return gen.SignedURL(m.PathValue("id"))
			},
			ErrorMessage: "Failed to fetch audio URL",
		},
		{
			Name:   RouteRecordingsList,
			Method: http.MethodGet,
			Path:   "/koenote/recordings",
			APIKey: true,
			Mock: func(forward.MockRequest) any {
				return gen.Recordings()
			},
			ErrorMessage: "Failed to fetch recordings",
			ErrorBody: func(msg string) any {
				return types.RecordingListError{Error: msg, Recordings: []types.RecordingSummary{}}
			},
		},
		{
			Name:   RouteRecordingGet,
			Method: http.MethodGet,
			Path:   "/koenoto/{id}",
			APIKey: true,
			Mock: func(m forward.MockRequest) any {
				return gen.RecordingDetail(m.PathValue("id"))
			},
			ErrorMessage: "Failed to fetch recording details",
		},
		{
			Name:   RouteRecordingDel,
			Method: http.MethodDelete,
			Path:   "/koenoto/{id}",
			APIKey: true,
			Mock: func(m forward.MockRequest) any {
				return gen.Delete(m.PathValue("id"))
			},
			ErrorMessage: "Failed to delete recording",
		},
		{
			Name:        RouteProcessAudio,
			Method:      http.MethodPost,
			Path:        "/koenoto/process-audio",
			ForwardBody: true,
			Mock: func(forward.MockRequest) any {
				return gen.ProcessStarted()
			},
			ErrorMessage: "Failed to process audio",
		},
		{
			Name:     RouteProcessStatus,
			Method:   http.MethodGet,
			Path:     "/koenoto/process-status",
			Query:    forward.PassQuery("executionArn"),
			Validate: forward.RequireQuery("executionArn"),
			Mock: func(forward.MockRequest) any {
				return gen.ProcessStatus()
			},
			ErrorMessage: "Failed to fetch processing status",
		},
		{
			Name:   RouteUserRecordings,
			Method: http.MethodGet,
			Path:   "/koenoto",
			Query:  forward.QueryWithDefaults(map[string]string{"user_id": DefaultUserID}),
			APIKey: true,
			Mock: func(m forward.MockRequest) any {
				return gen.UserRecordings(m.Query.Get("user_id"))
			},
			ErrorMessage: "Failed to fetch recordings",
		},
		{
			Name:        RouteCreate,
			Method:      http.MethodPost,
			Path:        "/koenoto",
			ForwardBody: true,
			APIKey:      true,
			Mock: func(m forward.MockRequest) any {
				return gen.Create(m.Body)
			},
			ErrorMessage: "Failed to create recording",
		},
		{
			Name:        RouteSave,
			Method:      http.MethodPost,
			Path:        "/koenoto/save-recording",
			ForwardBody: true,
			APIKey:      true,
			Mock: func(m forward.MockRequest) any {
				return gen.Save(m.Body)
			},
			ErrorMessage: "Failed to save recording",
		},
		{
			Name:        RouteUpload,
			Method:      http.MethodPost,
			Path:        "/koenoto/upload-audio",
			ForwardBody: true,
			APIKey:      true,
			Mock: func(forward.MockRequest) any {
				return gen.Upload()
			},
			ErrorMessage: "Failed to upload audio",
		},
	}
}

// Find returns the route with the given name.
func Find(routes []forward.Route, name string) (forward.Route, bool) {
	for _, rt := range routes {
		if rt.Name == name {
			return rt, true
		}
	}
	return forward.Route{}, false
}
