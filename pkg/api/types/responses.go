// Package types provides the JSON shapes exchanged with the koenote UI.
// Backend responses are relayed as raw JSON; these types describe what the
// mock fallback and the meta endpoints produce.
package types

// Processing states reported by /koenoto/process-status.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

// RecordingSummary is one entry of the /koenote/recordings listing.
type RecordingSummary struct {
	ID           string   `json:"id"`
	DeviceID     string   `json:"device_id"`
	Location     string   `json:"location"`
	Timestamp    string   `json:"timestamp"`
	Level        int      `json:"level"`
	AudioURL     string   `json:"audio_url"`
	AlertMessage string   `json:"alert_message,omitempty"`
	DangerWords  []string `json:"danger_words,omitempty"`
}

// RecordingList wraps the /koenote/recordings listing.
type RecordingList struct {
	Recordings []RecordingSummary `json:"recordings"`
}

// RecordingDetail is a transcribed and summarized recording.
type RecordingDetail struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Date       string   `json:"date"`
	StartTime  string   `json:"start_time"`
	Duration   string   `json:"duration"`
	Transcript string   `json:"transcript"`
	Summary    string   `json:"summary"`
	Keywords   []string `json:"keywords"`
	UserID     string   `json:"user_id"`
	AudioURL   string   `json:"audioUrl,omitempty"`
}

// ProcessStarted is returned when an audio processing workflow is started.
type ProcessStarted struct {
	ExecutionArn string `json:"executionArn"`
	Message      string `json:"message"`
}

// ProcessStatus reports the state of a processing workflow. Result is set
// once completed; Message and PercentComplete while running.
type ProcessStatus struct {
	Status          string         `json:"status"`
	Result          *ProcessResult `json:"result,omitempty"`
	Message         string         `json:"message,omitempty"`
	PercentComplete *int           `json:"percentComplete,omitempty"`
}

// ProcessResult is the workflow output envelope. Result holds a
// JSON-encoded ProcessOutcome.
type ProcessResult struct {
	Result string `json:"result"`
}

// ProcessOutcome is the decoded workflow output.
type ProcessOutcome struct {
	Title      string   `json:"title"`
	Transcript string   `json:"transcript"`
	Summary    string   `json:"summary"`
	Keywords   []string `json:"keywords"`
	AudioURL   string   `json:"audioUrl"`
}

// SignedURL resolves a recording to a playable audio URL.
type SignedURL struct {
	SignedURL string `json:"signedUrl"`
}

// UploadResult identifies an uploaded audio object.
type UploadResult struct {
	Key     string `json:"key"`
	Success bool   `json:"success"`
}

// DeleteResult acknowledges a deletion.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateResult wraps a created recording. Item echoes the submitted fields.
type CreateResult struct {
	Success bool `json:"success"`
	Item    any  `json:"item"`
}

// SaveResult wraps a saved recording.
type SaveResult struct {
	Success   bool `json:"success"`
	Recording any  `json:"recording"`
}

// RecordingListError is the failure body of /koenote/recordings. It keeps
// an empty list so list views can render without special-casing.
type RecordingListError struct {
	Error      string             `json:"error"`
	Recordings []RecordingSummary `json:"recordings"`
}

// ClientConfig is the configuration the UI reads at startup.
type ClientConfig struct {
	AudioBucketName string `json:"audioBucketName"`
	AWSRegion       string `json:"awsRegion"`
	Mode            string `json:"mode"`
}

// HealthResponse is a simple health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
