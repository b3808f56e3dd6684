package jobs

import (
	"context"
	"time"

	"registration-service/internal/config"
	"registration-service/internal/lock"
	"registration-service/internal/logger"
	"registration-service/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	requests repository.RegistrationRequestRepository
	locker   lock.Locker
	config   *config.Config
	now      func() time.Time
}

// NewJobRunner creates a new job runner. locker may be nil; when set, a job
// runs on at most one instance at a time.
func NewJobRunner(requests repository.RegistrationRequestRepository, locker lock.Locker, cfg *config.Config) *JobRunner {
	return &JobRunner{
		requests: requests,
		locker:   locker,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	log := logger.WithComponent("jobs").With("job", jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	ctx := context.Background()
	if jr.locker != nil {
		lockCtx, cancel := context.WithTimeout(ctx, time.Second)
		unlock, err := jr.locker.Lock(lockCtx, "job:"+jobName)
		cancel()
		if err != nil {
			log.Info("Job already running elsewhere, skipping", "error", err)
			return
		}
		defer unlock()
	}

	log.Info("Starting job")
	jobFunc(ctx)
	log.Info("Job completed")
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.PendingReviewReport()
}
