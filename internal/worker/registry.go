package worker

import (
	"sync"
	"time"

	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
)

// Registry tracks transcode job state for the lifetime of the process. It is
// the only place job state lives; a restart forgets every entry.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*models.JobState
}

func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*models.JobState),
	}
}

func (r *Registry) SetPending(fileKey string, submittedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[fileKey] = &models.JobState{
		FileKey:     fileKey,
		Status:      models.JobStatusPending,
		SubmittedAt: submittedAt,
	}
}

func (r *Registry) SetSucceeded(fileKey string) {
	r.finish(fileKey, models.JobStatusSucceeded, "")
}

func (r *Registry) SetFailed(fileKey, reason string) {
	r.finish(fileKey, models.JobStatusFailed, reason)
}

func (r *Registry) finish(fileKey string, status models.JobStatus, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.jobs[fileKey]
	if !ok {
		state = &models.JobState{FileKey: fileKey}
		r.jobs[fileKey] = state
	}
	state.Status = status
	state.Error = reason
	state.FinishedAt = time.Now()
}

// Get returns a copy so callers never race the worker's writes.
func (r *Registry) Get(fileKey string) (*models.JobState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.jobs[fileKey]
	if !ok {
		return nil, false
	}
	copied := *state
	return &copied, true
}
