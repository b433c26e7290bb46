package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker(time.Minute)

	job := tr.Create()
	_, err := uuid.Parse(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, job.Status)
	assert.Nil(t, job.FinishedAt)

	got, ok := tr.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, job, got)

	tr.Complete(job.ID, "/tmp/r.csv")
	got, ok = tr.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusComplete, got.Status)
	assert.Equal(t, "/tmp/r.csv", got.Path)
	assert.NotNil(t, got.FinishedAt)

	other := tr.Create()
	tr.Fail(other.ID, errors.New("no status data"))
	got, _ = tr.Get(other.ID)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "no status data", got.Error)

	assert.NotEqual(t, job.ID, other.ID)
	assert.Equal(t, 2, tr.Count())
}

func TestTracker_UnknownID(t *testing.T) {
	tr := NewTracker(time.Minute)
	_, ok := tr.Get("nope")
	assert.False(t, ok)

	// finishing an unknown job does not create it
	tr.Complete("nope", "x")
	_, ok = tr.Get("nope")
	assert.False(t, ok)
}

func TestTracker_FinishedJobsExpire(t *testing.T) {
	tr := NewTracker(50 * time.Millisecond)
	running := tr.Create()
	done := tr.Create()
	tr.Complete(done.ID, "x")

	time.Sleep(120 * time.Millisecond)

	_, ok := tr.Get(done.ID)
	assert.False(t, ok, "finished job should expire")
	_, ok = tr.Get(running.ID)
	assert.True(t, ok, "running job never expires")
}
