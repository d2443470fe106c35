package competitionqueue

import "time"

const (
	// QueueName is the dedicated River queue of the competition module.
	QueueName = "competition"

	finalizeResultsKind = "competition_finalize_results"
)

// FinalizeResultsJob recomputes and publishes the final standings of a
// competition once it has ended.
type FinalizeResultsJob struct {
	CompetitionID string    `json:"competition_id"`
	EndTime       time.Time `json:"end_time"`
}

// Kind returns the job type identifier for River
func (FinalizeResultsJob) Kind() string { return finalizeResultsKind }

// JobInfo represents information about a scheduled job (for debugging/monitoring)
type JobInfo struct {
	ID            int64  `json:"id"`
	Kind          string `json:"kind"`
	CompetitionID string `json:"competition_id"`
	State         string `json:"state"`
	ScheduledAt   string `json:"scheduled_at"`
	Attempt       int    `json:"attempt"`
	MaxAttempts   int    `json:"max_attempts"`
}
