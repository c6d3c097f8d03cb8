package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"webbase/internal/cache"
	apperrors "webbase/internal/errors"
	"webbase/internal/model"
	"webbase/internal/repository"
)

const (
	itemListCacheKey = "items:active"
	itemCacheTTL     = time.Minute
)

// ItemService exposes item read operations.
type ItemService interface {
	ListActive(ctx context.Context) ([]model.Item, error)
	GetItem(ctx context.Context, id uint) (*model.Item, error)
}

type itemService struct {
	repo  repository.ItemRepository
	cache *cache.Client
}

// NewItemService builds an ItemService with repository and cache.
func NewItemService(repo repository.ItemRepository, cache *cache.Client) ItemService {
	return &itemService{repo: repo, cache: cache}
}

func (s *itemService) ListActive(ctx context.Context) ([]model.Item, error) {
	if data, _ := s.cache.Get(ctx, itemListCacheKey); data != nil {
		var cached []model.Item
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if payload, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, itemListCacheKey, payload, itemCacheTTL)
	}
	return items, nil
}

func (s *itemService) GetItem(ctx context.Context, id uint) (*model.Item, error) {
	item, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}
