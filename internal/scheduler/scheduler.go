package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/greenroot/growth-data-aggregation/internal/dataset"
)

// Scheduler periodically reloads the datasets from the data directory. A
// failed reload keeps the previous datasets in place; the service only swaps
// the store contents after both loads succeed.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *dataset.Service
	interval  time.Duration
}

// New creates a new Scheduler. An interval of zero disables reloading.
func New(service *dataset.Service, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic reload job and starts the underlying
// scheduler. With a zero interval it does nothing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: reload disabled; datasets load once per process")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		log.Println("scheduler: reloading datasets")
		if err := s.service.Load(); err != nil {
			log.Printf("scheduler: reload failed, keeping previous datasets: %v", err)
			return
		}
		log.Println("scheduler: reload completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
