package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/aristath/esgscreen/internal/testing"
)

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string {
	return j.name
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("0 0 3 * * *", &countingJob{name: "nightly"}))
	require.NoError(t, s.AddJob("@every 10m", &countingJob{name: "frequent"}))

	assert.Equal(t, 2, s.Len())
}

func TestScheduler_AddJob_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("not a schedule", &countingJob{name: "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "manual"}

	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)

	job.err = errors.New("boom")
	assert.EqualError(t, s.RunNow(job), "boom")
	assert.Equal(t, 2, job.runs)
}

func TestScheduler_ExecuteSwallowsErrors(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "failing", err: errors.New("boom")}

	assert.NotPanics(t, func() { s.execute(job) })
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("0 0 3 * * *", &countingJob{name: "nightly"}))

	s.Start()
	s.Stop()
}

func TestWALCheckpointJob_Run(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "client_data")
	defer cleanup()

	job := NewWALCheckpointJob(zerolog.Nop(), "TRUNCATE", db, nil)

	assert.Equal(t, "wal_checkpoint", job.Name())
	assert.NoError(t, job.Run())
}

func TestWALCheckpointJob_InvalidModeIsLoggedNotReturned(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "client_data")
	defer cleanup()

	job := NewWALCheckpointJob(zerolog.Nop(), "SOMETIMES", db)

	assert.NoError(t, job.Run())
}
