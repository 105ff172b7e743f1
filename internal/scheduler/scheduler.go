package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"roomstay-backend/internal/jobs"
	"roomstay-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Nightly jobs
	_, err := s.cron.AddFunc(cfg.SendCheckOutReminders, s.jobs.SendCheckOutReminders)
	if err != nil {
		logger.Error("Failed to register SendCheckOutReminders job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.SendCheckInReminders, s.jobs.SendCheckInReminders)
	if err != nil {
		logger.Error("Failed to register SendCheckInReminders job", "error", err)
	}

	// Weekly jobs
	_, err = s.cron.AddFunc(cfg.PurgeReadNotifications, s.jobs.PurgeReadNotifications)
	if err != nil {
		logger.Error("Failed to register PurgeReadNotifications job", "error", err)
	}
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting job scheduler")
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping job scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}
