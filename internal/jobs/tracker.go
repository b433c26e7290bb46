package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Status is the lifecycle state of a report job.
type Status string

const (
	StatusRunning  Status = "Running"
	StatusComplete Status = "Complete"
	StatusError    Status = "Error"
)

// Job is the tracked state of one report.
type Job struct {
	ID          string     `json:"report_id"`
	Status      Status     `json:"status"`
	Path        string     `json:"-"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Tracker records report jobs in memory. Running jobs never expire;
// finished jobs are dropped ttl after they finish.
type Tracker struct {
	jobs *cache.Cache
	ttl  time.Duration
	now  func() time.Time
}

// NewTracker creates a tracker that keeps finished jobs for ttl.
func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tracker{
		jobs: cache.New(cache.NoExpiration, ttl),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create registers a new running job under a fresh id.
func (t *Tracker) Create() Job {
	job := Job{
		ID:          uuid.NewString(),
		Status:      StatusRunning,
		SubmittedAt: t.now().UTC(),
	}
	t.jobs.Set(job.ID, job, cache.NoExpiration)
	return job
}

// Complete marks a job as done with its report file.
func (t *Tracker) Complete(id, path string) {
	t.finish(id, func(j *Job) {
		j.Status = StatusComplete
		j.Path = path
	})
}

// Fail marks a job as failed.
func (t *Tracker) Fail(id string, err error) {
	t.finish(id, func(j *Job) {
		j.Status = StatusError
		j.Error = err.Error()
	})
}

func (t *Tracker) finish(id string, update func(j *Job)) {
	job, ok := t.Get(id)
	if !ok {
		return
	}
	update(&job)
	done := t.now().UTC()
	job.FinishedAt = &done
	t.jobs.Set(id, job, t.ttl)
}

// Get returns the job with the given id.
func (t *Tracker) Get(id string) (Job, bool) {
	v, ok := t.jobs.Get(id)
	if !ok {
		return Job{}, false
	}
	return v.(Job), true
}

// Remove forgets a job.
func (t *Tracker) Remove(id string) {
	t.jobs.Delete(id)
}

// Count returns the number of tracked jobs, expired ones included until
// the next cleanup.
func (t *Tracker) Count() int {
	return t.jobs.ItemCount()
}
