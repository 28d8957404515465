package model

import (
	"time"
)

// ItemType purchasable item kind
type ItemType string

const (
	ItemTypeCourse  ItemType = "course"
	ItemTypeProduct ItemType = "product"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypeCourse || t == ItemTypeProduct
}

// CourseModel course listing; only the fields the payment core reads
type CourseModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatorId string  `json:"creator_id" gorm:"size:36;not null;index"`
	Title     string  `json:"title" gorm:"not null"`
	Price     float64 `json:"price" gorm:"default:0"`
	IsFree    bool    `json:"is_free" gorm:"default:false"`
}

func (CourseModel) TableName() string {
	return "courses"
}

// ProductModel digital or physical product listing
type ProductModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatorId string  `json:"creator_id" gorm:"size:36;not null;index"`
	Name      string  `json:"name" gorm:"not null"`
	Price     float64 `json:"price" gorm:"default:0"`
}

func (ProductModel) TableName() string {
	return "products"
}
