package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderModel a settled purchase, one row per purchased item
type OrderModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserId   string      `json:"user_id" gorm:"size:36;not null;index"`
	ItemId   string      `json:"item_id" gorm:"size:36;not null;uniqueIndex:idx_orders_payment_item"`
	ItemType ItemType    `json:"item_type" gorm:"size:16;not null"`
	Amount   int64       `json:"amount" gorm:"not null"` // minor units
	Currency string      `json:"currency" gorm:"size:3;default:'INR'"`
	Status   OrderStatus `json:"status" gorm:"size:16;default:'pending'"`

	GatewayOrderId   string `json:"razorpay_order_id" gorm:"column:razorpay_order_id;index"`
	GatewayPaymentId string `json:"razorpay_payment_id" gorm:"column:razorpay_payment_id;uniqueIndex:idx_orders_payment_item"`
	GatewaySignature string `json:"razorpay_signature" gorm:"column:razorpay_signature"`
}

// OrderStatus order lifecycle
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

func (OrderModel) TableName() string {
	return "orders"
}

func (o *OrderModel) BeforeCreate(tx *gorm.DB) error {
	if o.Id == "" {
		o.Id = uuid.NewString()
	}
	return nil
}

// EnrollmentModel grants a learner access to a paid course
type EnrollmentModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`

	UserId   string `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_enrollments_user_course"`
	CourseId string `json:"course_id" gorm:"size:36;not null;uniqueIndex:idx_enrollments_user_course"`
	Progress int    `json:"progress" gorm:"default:0"`
}

func (EnrollmentModel) TableName() string {
	return "enrollments"
}

func (e *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	return nil
}
