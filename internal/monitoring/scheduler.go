package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is a named maintenance task run on a cron schedule.
type Job struct {
	Name string
	Spec string // standard cron expression or a descriptor such as "@hourly"
	Run  func(ctx context.Context) error
}

// Scheduler runs maintenance jobs in the background.
type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	timeout time.Duration
}

// NewScheduler creates a new scheduler instance. An invalid job spec is an error.
func NewScheduler(jobs ...Job) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs:    jobs,
		timeout: time.Minute,
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.execute(context.Background(), job) }); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
		}
	}
	return s, nil
}

// Run executes every job once, then starts the cron loop. It does not block.
func (s *Scheduler) Run() {
	log.Info().Int("jobs", len(s.jobs)).Msg("Starting background scheduler")
	s.RunAll(context.Background())
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler")
}

// RunAll executes every job once, synchronously.
func (s *Scheduler) RunAll(ctx context.Context) {
	for _, job := range s.jobs {
		s.execute(ctx, job)
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error().Err(err).Str("job", job.Name).Msg("Scheduler: Job failed")
		return
	}
	log.Debug().Str("job", job.Name).Dur("duration", time.Since(start)).Msg("Scheduler: Job finished")
}
