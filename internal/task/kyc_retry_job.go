package task

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/model"
)

const defaultKYCBatchSize = 50

type PendingKYCStore interface {
	ListPendingKYC(ctx context.Context, limit int) ([]model.CreatorProfileModel, error)
	MarkKYCAttempted(ctx context.Context, creatorID string, at time.Time) error
}

// KYCSubmitter is satisfied by *logic.LinkedAccountLogic
type KYCSubmitter interface {
	SubmitKYC(ctx context.Context, profile *model.CreatorProfileModel) error
}

// KYCRetryJob re-submits stakeholder details for creators whose submission
// failed during provisioning.
type KYCRetryJob struct {
	profiles  PendingKYCStore
	submitter KYCSubmitter
	interval  time.Duration
	batchSize int
}

func NewKYCRetryJob(profiles PendingKYCStore, submitter KYCSubmitter, interval time.Duration) *KYCRetryJob {
	return &KYCRetryJob{
		profiles:  profiles,
		submitter: submitter,
		interval:  interval,
		batchSize: defaultKYCBatchSize,
	}
}

func (j *KYCRetryJob) GetName() string {
	return "kyc_retry"
}

func (j *KYCRetryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

func (j *KYCRetryJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	j.Run(ctx)
}

// Run processes one batch and reports how many submissions succeeded and failed.
func (j *KYCRetryJob) Run(ctx context.Context) (submitted, failed int, err error) {
	profiles, err := j.profiles.ListPendingKYC(ctx, j.batchSize)
	if err != nil {
		logger.Error("Failed to fetch creators pending kyc: %v", err)
		return 0, 0, err
	}
	if len(profiles) == 0 {
		logger.Debug("No creators pending kyc")
		return 0, 0, nil
	}

	logger.Info("Retrying kyc submission for %d creators", len(profiles))
	for i := range profiles {
		if ctx.Err() != nil {
			return submitted, failed, ctx.Err()
		}
		if err := j.submitter.SubmitKYC(ctx, &profiles[i]); err != nil {
			logger.Warn("KYC retry failed for creator %s: %v", profiles[i].Id, err)
			if err := j.profiles.MarkKYCAttempted(ctx, profiles[i].Id, time.Now()); err != nil {
				logger.Error("Failed to record kyc attempt for creator %s: %v", profiles[i].Id, err)
			}
			failed++
			continue
		}
		submitted++
	}

	logger.Info("KYC retry finished: %d submitted, %d failed", submitted, failed)
	return submitted, failed, nil
}
