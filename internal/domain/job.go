package domain

import "time"

type JobState string

const (
	JobStatePending    JobState = "pending"
	JobStateProcessing JobState = "processing"
	JobStateComplete   JobState = "complete"
	JobStateFailed     JobState = "failed"
)

// Terminal reports whether no further transition may leave the state.
func (s JobState) Terminal() bool {
	return s == JobStateComplete || s == JobStateFailed
}

// Progress counts scenes already handled by the sequential processing loop.
// CompletedScenes never decreases while a job is processing.
type Progress struct {
	CompletedScenes int `json:"completed_scenes"`
	TotalScenes     int `json:"total_scenes"`
}

// Job is one script-to-shot-list conversion request. A snapshot is written
// to the status store as a whole record after every transition, so readers
// always observe a self-consistent state.
type Job struct {
	ID            string      `json:"job_id"`
	State         JobState    `json:"state"`
	Progress      Progress    `json:"progress"`
	Results       *JobResults `json:"results,omitempty"`
	FailureReason string      `json:"failure_reason,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// JobResults is present only on complete jobs. Both lists follow scene
// order; len(SuccessfulScenes)+len(FailedScenes) equals Progress.TotalScenes.
type JobResults struct {
	SuccessfulScenes []SceneSuccess `json:"successful_scenes"`
	FailedScenes     []SceneFailure `json:"failed_scenes"`
}

type SceneSuccess struct {
	SceneLabel string `json:"scene"`
	Shots      []Shot `json:"shot_list"`
}

type SceneFailure struct {
	SceneLabel   string `json:"scene"`
	ErrorMessage string `json:"error"`
}

// Scene is a contiguous span of script text covering one location/setting.
// RawText is processing input only and is never persisted with results.
type Scene struct {
	Heading       string
	RawText       string
	SequenceIndex int
}

// StartSignal is the dispatch transport message that triggers a job run.
// Delivery is at-least-once; duplicate signals are rejected downstream.
type StartSignal struct {
	JobID       string    `json:"job_id"`
	SourceKey   string    `json:"source_key,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}
