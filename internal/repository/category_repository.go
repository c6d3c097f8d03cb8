package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"webbase/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	ListVisible(ctx context.Context) ([]model.Category, error)
	FindVisibleByID(ctx context.Context, id uint) (*model.Category, error)
	// FindByNameOrCreate looks a category up by its unique name and creates
	// it when absent. Used by the seeder so reruns stay idempotent.
	FindByNameOrCreate(ctx context.Context, category *model.Category) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a GORM-backed category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListVisible(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("display_order, display_name").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindVisibleByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_visible = ?", id, true).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByNameOrCreate(ctx context.Context, category *model.Category) (*model.Category, error) {
	var existing model.Category
	err := r.db.WithContext(ctx).
		Where("category_name = ?", category.CategoryName).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}
