package models

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// TranscodeJob is one ephemeral unit of background work, bound to a single
// asset. It is never persisted; a process restart forgets it.
type TranscodeJob struct {
	UserID      string
	FileKey     string
	Content     []byte
	SubmittedAt time.Time
}

type JobState struct {
	FileKey     string    `json:"file_key"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}
