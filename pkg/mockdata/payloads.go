package mockdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/koenote/koenote-proxy/pkg/api/types"
)

// Sample audio served by the mock payloads.
const (
	SoundDigitalWatch = "https://actions.google.com/sounds/v1/alarms/digital_watch_alarm_long.ogg"
	SoundBeepShort    = "https://actions.google.com/sounds/v1/alarms/beep_short.ogg"
	SoundAlarmClock   = "https://actions.google.com/sounds/v1/alarms/alarm_clock.ogg"
)

// DemoUserID is the owner of synthesized recordings.
const DemoUserID = "demo-user-123"

// ExecutionArnPrefix prefixes mock workflow execution ARNs.
const ExecutionArnPrefix = "arn:aws:states:ap-northeast-1:123456789012:execution:KoenotoProcessingStateMachine:"

// completedThreshold: a draw above it reports the workflow as completed
// (roughly 70% of polls).
const completedThreshold = 0.3

// SignedURL maps recording ids "2" and "3" to distinct sounds; every other
// id gets the default sound.
func (g *Generator) SignedURL(id string) types.SignedURL {
	switch id {
	case "2":
		return types.SignedURL{SignedURL: SoundBeepShort}
	case "3":
		return types.SignedURL{SignedURL: SoundAlarmClock}
	default:
		return types.SignedURL{SignedURL: SoundDigitalWatch}
	}
}

// Recordings returns three sample device recordings, one per alert level.
func (g *Generator) Recordings() types.RecordingList {
	now := g.now()
	return types.RecordingList{Recordings: []types.RecordingSummary{
		{
			ID:        "1",
			DeviceID:  "test-device-001",
			Location:  "テスト店舗1階",
			Timestamp: isoTimestamp(now),
			Level:     1,
			AudioURL:  SoundDigitalWatch,
		},
		{
			ID:           "2",
			DeviceID:     "test-device-002",
			Location:     "テスト店舗2階",
			Timestamp:    isoTimestamp(now.Add(-time.Hour)),
			Level:        2,
			AudioURL:     SoundBeepShort,
			AlertMessage: "通常より大きな音が検出されていますが、NGワードの検出はありませんでした。",
		},
		{
			ID:           "3",
			DeviceID:     "test-device-003",
			Location:     "テスト店舗入口",
			Timestamp:    isoTimestamp(now.Add(-2 * time.Hour)),
			Level:        3,
			AudioURL:     SoundAlarmClock,
			AlertMessage: "音声解析の結果、以下のようなワードが含まれていた可能性があります:『死ね』\n※言葉の表現は前後の文脈により異なる場合があります。",
			DangerWords:  []string{"死ね"},
		},
	}}
}

// RecordingDetail synthesizes a recording with the given id, dated now.
func (g *Generator) RecordingDetail(id string) types.RecordingDetail {
	now := g.now()
	return types.RecordingDetail{
		ID:         id,
		Title:      "録音 " + id,
		Date:       date(now),
		StartTime:  g.clock(now),
		Duration:   "00:03:45",
		Transcript: "これはサンプルの文字起こしです。録音内容のテキスト表示がここに表示されます。",
		Summary:    "これは録音内容の要約サンプルです。重要なポイントや主要なトピックがここに表示されます。",
		Keywords:   []string{"サンプル", "テスト", "録音"},
		UserID:     DemoUserID,
		AudioURL:   SoundDigitalWatch,
	}
}

// Delete acknowledges deletion of id.
func (g *Generator) Delete(id string) types.DeleteResult {
	return types.DeleteResult{
		Success: true,
		Message: fmt.Sprintf("Recording %s deleted successfully", id),
	}
}

// ProcessStarted returns an execution ARN embedding the current Unix
// millisecond timestamp.
func (g *Generator) ProcessStarted() types.ProcessStarted {
	return types.ProcessStarted{
		ExecutionArn: fmt.Sprintf("%s%d", ExecutionArnPrefix, g.now().UnixMilli()),
		Message:      "Processing started",
	}
}

// ProcessStatus reports a randomly chosen workflow state.
func (g *Generator) ProcessStatus() types.ProcessStatus {
	if g.rand.Float64() > completedThreshold {
		outcome, _ := json.Marshal(types.ProcessOutcome{
			Title:      "サンプル録音",
			Transcript: "これはサンプルの文字起こしです。録音内容のテキスト表示がここに表示されます。長い文章の場合は自動的にスクロールします。",
			Summary:    "これは録音内容の要約サンプルです。重要なポイントや主要なトピックがここに表示されます。",
			Keywords:   []string{"サンプル", "テスト", "録音", "文字起こし"},
			AudioURL:   SoundDigitalWatch,
		})
		return types.ProcessStatus{
			Status: types.StatusCompleted,
			Result: &types.ProcessResult{Result: string(outcome)},
		}
	}

	percent := g.rand.IntN(100)
	return types.ProcessStatus{
		Status:          types.StatusRunning,
		Message:         "音声処理中...",
		PercentComplete: &percent,
	}
}

// UserRecordings returns two sample recordings owned by userID; the second
// one is dated a day earlier.
func (g *Generator) UserRecordings(userID string) []types.RecordingDetail {
	now := g.now()
	yesterday := now.Add(-24 * time.Hour)
	return []types.RecordingDetail{
		{
			ID:         "1",
			Title:      "録音 1",
			Date:       date(now),
			StartTime:  g.clock(now),
			Duration:   "00:03:45",
			Transcript: "これはサンプルの文字起こしです。",
			Summary:    "これは録音内容の要約サンプルです。",
			Keywords:   []string{"サンプル", "テスト"},
			UserID:     userID,
			AudioURL:   SoundDigitalWatch,
		},
		{
			ID:         "2",
			Title:      "録音 2",
			Date:       date(yesterday),
			StartTime:  g.clock(yesterday),
			Duration:   "00:02:15",
			Transcript: "これは別のサンプルの文字起こしです。",
			Summary:    "これは別の録音内容の要約サンプルです。",
			Keywords:   []string{"別", "サンプル"},
			UserID:     userID,
			AudioURL:   SoundBeepShort,
		},
	}
}

// Create echoes the submitted recording with a fresh "mock-{ms}" id. A body
// that is not a JSON object yields a fully synthesized recording.
func (g *Generator) Create(body []byte) types.CreateResult {
	now := g.now()
	id := fmt.Sprintf("mock-%d", now.UnixMilli())

	item, ok := decodeObject(body)
	if !ok {
		return types.CreateResult{Success: true, Item: g.placeholder(id, now)}
	}
	item["id"] = id
	return types.CreateResult{Success: true, Item: item}
}

// Save echoes body.recording, keeping its id when present and non-null and
// otherwise assigning "recording-{ms}". A missing or non-object recording
// yields a fully synthesized one.
func (g *Generator) Save(body []byte) types.SaveResult {
	now := g.now()
	id := fmt.Sprintf("recording-%d", now.UnixMilli())

	envelope, ok := decodeObject(body)
	if !ok {
		return types.SaveResult{Success: true, Recording: g.placeholder(id, now)}
	}
	recording, ok := envelope["recording"].(map[string]any)
	if !ok {
		return types.SaveResult{Success: true, Recording: g.placeholder(id, now)}
	}
	if existing, present := recording["id"]; !present || existing == nil {
		recording["id"] = id
	}
	return types.SaveResult{Success: true, Recording: recording}
}

// Upload returns a storage key embedding the current Unix millisecond
// timestamp.
func (g *Generator) Upload() types.UploadResult {
	return types.UploadResult{
		Key:     fmt.Sprintf("uploads/audio-%d.webm", g.now().UnixMilli()),
		Success: true,
	}
}

// placeholder is the recording returned when the submitted body is unusable.
func (g *Generator) placeholder(id string, now time.Time) types.RecordingDetail {
	return types.RecordingDetail{
		ID:         id,
		Title:      "Mock Recording",
		Date:       date(now),
		StartTime:  g.clock(now),
		Duration:   "00:01:30",
		Transcript: "Mock transcript",
		Summary:    "Mock summary",
		Keywords:   []string{"mock", "test"},
		UserID:     DemoUserID,
	}
}

// decodeObject decodes body as a JSON object, keeping numbers verbatim.
func decodeObject(body []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
