package scheduler

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/task"
)

// Manager owns the gocron scheduler for background jobs
type Manager struct {
	scheduler gocron.Scheduler
	jobs      []string
}

func NewManager() (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Manager{scheduler: s}, nil
}

// Register adds a job. A run still in progress when the next is due is
// rescheduled rather than overlapped.
func (m *Manager) Register(job task.Job) error {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.GetName(), err)
	}
	m.jobs = append(m.jobs, job.GetName())
	return nil
}

// Jobs names of registered jobs
func (m *Manager) Jobs() []string {
	return m.jobs
}

func (m *Manager) Start() {
	m.scheduler.Start()
	logger.Info("Task manager started with jobs %v", m.jobs)
}

func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
