package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/harish-v07/CreatorHub/internal/model"
	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("item not found")

// ItemRepository resolves the creator that owns a course or product.
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) CreatorForCourse(ctx context.Context, courseID string) (string, error) {
	var course model.CourseModel
	if err := r.db.WithContext(ctx).Select("id", "creator_id").First(&course, "id = ?", courseID).Error; err != nil {
		return "", wrapItemErr("course", courseID, err)
	}
	return course.CreatorId, nil
}

func (r *ItemRepository) CreatorForProduct(ctx context.Context, productID string) (string, error) {
	var product model.ProductModel
	if err := r.db.WithContext(ctx).Select("id", "creator_id").First(&product, "id = ?", productID).Error; err != nil {
		return "", wrapItemErr("product", productID, err)
	}
	return product.CreatorId, nil
}

func (r *ItemRepository) CreatorForItem(ctx context.Context, itemID string, itemType model.ItemType) (string, error) {
	switch itemType {
	case model.ItemTypeCourse:
		return r.CreatorForCourse(ctx, itemID)
	case model.ItemTypeProduct:
		return r.CreatorForProduct(ctx, itemID)
	default:
		return "", fmt.Errorf("unknown item type %q", itemType)
	}
}

// PriceForItem returns the listed price in major units. Free courses cost 0.
func (r *ItemRepository) PriceForItem(ctx context.Context, itemID string, itemType model.ItemType) (float64, error) {
	switch itemType {
	case model.ItemTypeCourse:
		var course model.CourseModel
		if err := r.db.WithContext(ctx).Select("id", "price", "is_free").First(&course, "id = ?", itemID).Error; err != nil {
			return 0, wrapItemErr("course", itemID, err)
		}
		if course.IsFree {
			return 0, nil
		}
		return course.Price, nil
	case model.ItemTypeProduct:
		var product model.ProductModel
		if err := r.db.WithContext(ctx).Select("id", "price").First(&product, "id = ?", itemID).Error; err != nil {
			return 0, wrapItemErr("product", itemID, err)
		}
		return product.Price, nil
	default:
		return 0, fmt.Errorf("unknown item type %q", itemType)
	}
}

func wrapItemErr(kind, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrItemNotFound)
	}
	return fmt.Errorf("failed to load %s %s: %w", kind, id, err)
}
