package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"webbase/internal/model"
)

// ItemRepository defines item persistence operations. Listings and lookups
// return items together with their category.
type ItemRepository interface {
	ListActive(ctx context.Context) ([]model.Item, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Item, error)
	// FindByTitleOrCreate scopes the title lookup to the item's category and
	// creates the item when absent. Used by the seeder.
	FindByTitleOrCreate(ctx context.Context, item *model.Item) (*model.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository builds a GORM-backed item repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) ListActive(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) FindActiveByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByTitleOrCreate(ctx context.Context, item *model.Item) (*model.Item, error) {
	var existing model.Item
	err := r.db.WithContext(ctx).
		Where("title = ? AND category_id = ?", item.Title, item.CategoryID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}
