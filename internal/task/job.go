package task

import "github.com/go-co-op/gocron/v2"

// Job a periodic background task registered with the scheduler
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}
