package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harish-v07/CreatorHub/internal/model"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("creator profile not found")

// SettlementDetails fields written once a linked account is fully set up
type SettlementDetails struct {
	AccountID         string
	BankAccountLast4  string
	IFSCCode          string
	AccountHolderName string
	PANNumber         string
	Phone             string
	VerifiedAt        time.Time
	KYCSubmittedAt    *time.Time
	KYCAttemptedAt    *time.Time
}

// ProfileRepository reads and writes the payment columns of creator profiles.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, creatorID string) (*model.CreatorProfileModel, error) {
	var profile model.CreatorProfileModel
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", creatorID, err)
	}
	return &profile, nil
}

// SaveAccountCheckpoint stores the gateway account id as soon as it exists so
// a retried provisioning run reuses it.
func (r *ProfileRepository) SaveAccountCheckpoint(ctx context.Context, creatorID, accountID string) error {
	return r.update(ctx, creatorID, map[string]interface{}{
		"razorpay_account_id": accountID,
	})
}

func (r *ProfileRepository) SaveSettlementDetails(ctx context.Context, creatorID string, d SettlementDetails) error {
	fields := map[string]interface{}{
		"razorpay_account_id":      d.AccountID,
		"bank_account_number":      d.BankAccountLast4,
		"bank_ifsc_code":           d.IFSCCode,
		"bank_account_name":        d.AccountHolderName,
		"pan_card_number":          d.PANNumber,
		"payment_details_verified": true,
		"payment_details_added_at": d.VerifiedAt,
	}
	if d.Phone != "" {
		fields["phone"] = d.Phone
	}
	if d.KYCSubmittedAt != nil {
		fields["kyc_submitted_at"] = *d.KYCSubmittedAt
	}
	if d.KYCAttemptedAt != nil {
		fields["kyc_attempted_at"] = *d.KYCAttemptedAt
	}
	return r.update(ctx, creatorID, fields)
}

func (r *ProfileRepository) MarkKYCSubmitted(ctx context.Context, creatorID string, at time.Time) error {
	return r.update(ctx, creatorID, map[string]interface{}{
		"kyc_submitted_at": at,
	})
}

// MarkKYCAttempted records a failed stakeholder submission so the next batch
// starts with creators that were tried least recently.
func (r *ProfileRepository) MarkKYCAttempted(ctx context.Context, creatorID string, at time.Time) error {
	return r.update(ctx, creatorID, map[string]interface{}{
		"kyc_attempted_at": at,
	})
}

// ListPendingKYC returns verified creators with a routable account whose
// stakeholder submission never went through. Creators never attempted come
// first, then the least recently attempted.
func (r *ProfileRepository) ListPendingKYC(ctx context.Context, limit int) ([]model.CreatorProfileModel, error) {
	var profiles []model.CreatorProfileModel
	q := r.db.WithContext(ctx).
		Where("payment_details_verified = ?", true).
		Where("kyc_submitted_at IS NULL").
		Where("razorpay_account_id LIKE ?", model.RoutableAccountPrefix+"%").
		Order("kyc_attempted_at IS NOT NULL").
		Order("kyc_attempted_at ASC").
		Order("payment_details_added_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending kyc profiles: %w", err)
	}
	return profiles, nil
}

func (r *ProfileRepository) update(ctx context.Context, creatorID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.CreatorProfileModel{}).
		Where("id = ?", creatorID).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile %s: %w", creatorID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
