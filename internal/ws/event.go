package ws

import (
	"time"

	"jobboard/internal/domain/job"
)

const EventJobsUpdated = "jobs_updated"

// JobsUpdatedEvent is pushed to every subscriber when the catalog changes.
type JobsUpdatedEvent struct {
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	JobID     string `json:"jobId,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewJobsUpdatedEvent(reason string, j job.Job, now time.Time) JobsUpdatedEvent {
	return JobsUpdatedEvent{
		Type:      EventJobsUpdated,
		Reason:    reason,
		JobID:     j.ID,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
