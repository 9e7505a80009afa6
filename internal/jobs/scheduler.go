package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"webappmanager/internal/tasks"
)

// DefaultCleanupSpec fires once a day at 03:00:00.
const DefaultCleanupSpec = "0 0 3 * * *"

type TaskQueue interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}

type Scheduler struct {
	cron  *cron.Cron
	queue TaskQueue
	spec  string
	log   zerolog.Logger
}

func NewScheduler(queue TaskQueue, spec string, log zerolog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultCleanupSpec
	}
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		spec:  spec,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.EnqueueCleanup); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("cleanup schedule registered")
	return nil
}

// Stop halts the schedule and waits up to five seconds for a running job.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) EnqueueCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.queue.Enqueue(ctx, tasks.Cleanup()); err != nil {
		s.log.Error().Err(err).Msg("enqueue cleanup failed")
	}
}
