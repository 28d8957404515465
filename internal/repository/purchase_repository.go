package repository

import (
	"context"
	"fmt"

	"github.com/harish-v07/CreatorHub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepository writes settled purchases.
type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Record inserts one order row, plus an enrollment for a course, in a single
// transaction. A row that already exists for the same payment and item is
// left as is.
func (r *PurchaseRepository) Record(ctx context.Context, order *model.OrderModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(order).Error; err != nil {
			return fmt.Errorf("failed to insert order for item %s: %w", order.ItemId, err)
		}

		if order.ItemType != model.ItemTypeCourse {
			return nil
		}

		enrollment := &model.EnrollmentModel{
			UserId:   order.UserId,
			CourseId: order.ItemId,
			Progress: 0,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(enrollment).Error; err != nil {
			return fmt.Errorf("failed to enroll user %s in course %s: %w", order.UserId, order.ItemId, err)
		}
		return nil
	})
}

// ListByPayment returns the rows written for a gateway payment.
func (r *PurchaseRepository) ListByPayment(ctx context.Context, paymentID string) ([]model.OrderModel, error) {
	var orders []model.OrderModel
	if err := r.db.WithContext(ctx).Where("razorpay_payment_id = ?", paymentID).Order("created_at").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for payment %s: %w", paymentID, err)
	}
	return orders, nil
}
