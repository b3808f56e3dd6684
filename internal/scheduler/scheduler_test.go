package scheduler

import (
	"testing"

	"registration-service/internal/config"
	"registration-service/internal/jobs"
	"registration-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runner(schedule string) *jobs.JobRunner {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{PendingReport: schedule, StaleAfterHours: 24}}
	return jobs.NewJobRunner(memory.NewRegistrationRequestRepository(), nil, cfg)
}

func TestNewScheduler(t *testing.T) {
	s, err := NewScheduler(runner("0 0 8 * * *"))
	require.NoError(t, err)

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewScheduler(runner("every tuesday"))
	assert.Error(t, err)
}
