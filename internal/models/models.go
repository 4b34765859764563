package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Enums

// JobStatus is the lifecycle state of an assembly job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusRetry     JobStatus = "retry"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// Terminal reports whether a job in this status will never run again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCanceled
}

// SourceType identifies which originating record type owns an assembly job.
type SourceType string

const (
	SourceDirector SourceType = "director"
	SourceEpisode  SourceType = "episode"
)

// Video record statuses the worker reads/writes on the videos table.
// The worker never owns the full video lifecycle — only this subset.
const (
	VideoStatusAssembling     = "assembling"
	VideoStatusCompleted      = "completed"
	VideoStatusAssemblyFailed = "assembly_failed"
	VideoStatusCanceled       = "assembly_canceled"
)

// Beat is one narrated scene: a narration line, a visual description used
// upstream for image generation, and a nominal duration in seconds. Beat
// order is both narrative and temporal — beat i's segment directly follows
// beat i-1's in the final video.
type Beat struct {
	Line     string  `json:"line"`
	Visual   string  `json:"visual,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Word is one spoken token with start/end time in seconds, produced by
// word-level alignment of the narration audio.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// JobPayload is the opaque job payload consumed by the assembly worker.
// Stored as JSONB on the assembly_jobs row.
type JobPayload struct {
	VideoID         string    `json:"video_id"`
	ImageURLs       []string  `json:"image_urls"`
	AudioURL        string    `json:"audio_url"`
	Beats           []Beat    `json:"beats,omitempty"`
	Durations       []float64 `json:"durations,omitempty"`
	IncludeCaptions bool      `json:"include_captions"`
	CaptionStyle    string    `json:"caption_style,omitempty"`
	MotionEffect    string    `json:"motion_effect,omitempty"`
	TransitionStyle string    `json:"transition_style,omitempty"`
	ColorGrade      string    `json:"color_grade,omitempty"`
	BGMURL          string    `json:"bgm_url,omitempty"`
	MusicMood       string    `json:"music_mood,omitempty"`
	WordsPerLine    int       `json:"words_per_line,omitempty"`
}

func (p JobPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *JobPayload) Scan(value interface{}) error {
	if value == nil {
		*p = JobPayload{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", value)
	}
	return json.Unmarshal(bytes, p)
}

// AssemblyJob is one unit of pipeline work on the durable queue.
// Mutated only by the worker holding the lease; terminal at
// completed, failed, or canceled.
type AssemblyJob struct {
	ID          uuid.UUID  `json:"id"`
	VideoID     string     `json:"video_id"`
	SourceType  SourceType `json:"source_type"`
	Payload     JobPayload `json:"payload"`
	Status      JobStatus  `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	LastError   *string    `json:"last_error,omitempty"`
	LockedBy    *string    `json:"locked_by,omitempty"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// VideoUpdate is a partial update to the external videos record. Nil fields
// are omitted from the write; the store additionally drops any field absent
// from the target table's column allowlist so a schema-drifted deployment
// never fails an otherwise-successful status update.
type VideoUpdate struct {
	Status         *string
	Progress       *int
	Stage          *string
	ETASeconds     *int
	ElapsedSeconds *int
	Log            *string
	StartedAt      *time.Time
	CompletedAt    *time.Time
	VideoURL       *string
	Reason         *string
}

// Fields flattens the update into column-name/value pairs.
func (u VideoUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.Progress != nil {
		fields["assembly_progress"] = *u.Progress
	}
	if u.Stage != nil {
		fields["assembly_stage"] = *u.Stage
	}
	if u.ETASeconds != nil {
		fields["assembly_eta_seconds"] = *u.ETASeconds
	}
	if u.ElapsedSeconds != nil {
		fields["assembly_elapsed_seconds"] = *u.ElapsedSeconds
	}
	if u.Log != nil {
		fields["assembly_log"] = *u.Log
	}
	if u.StartedAt != nil {
		fields["assembly_started_at"] = *u.StartedAt
	}
	if u.CompletedAt != nil {
		fields["assembly_completed_at"] = *u.CompletedAt
	}
	if u.VideoURL != nil {
		fields["video_url"] = *u.VideoURL
	}
	if u.Reason != nil {
		fields["assembly_reason"] = *u.Reason
	}
	return fields
}

// Helpers for building pointer-heavy updates without ceremony.

func StrPtr(s string) *string        { return &s }
func IntPtr(i int) *int              { return &i }
func TimePtr(t time.Time) *time.Time { return &t }
