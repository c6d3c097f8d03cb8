package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"webbase/internal/cache"
	"webbase/internal/config"
	apperrors "webbase/internal/errors"
	"webbase/internal/model"
	"webbase/internal/service"
)

// APIHandler serves the JSON endpoints.
type APIHandler struct {
	db         *gorm.DB
	cache      *cache.Client
	categories service.CategoryService
	items      service.ItemService
}

// NewAPIHandler creates the JSON API handler layer.
func NewAPIHandler(db *gorm.DB, cache *cache.Client, categories service.CategoryService, items service.ItemService) *APIHandler {
	return &APIHandler{db: db, cache: cache, categories: categories, items: items}
}

// Hello godoc
// @Summary Hello endpoint
// @Tags api
// @Produce json
// @Success 200 {object} model.APIResponse
// @Router /hello [get]
func (h *APIHandler) Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, model.APIResponse{
		Message:   "Hello from webbase! A small Go web application template.",
		Status:    "success",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Health godoc
// @Summary Health check with dependency connectivity
// @Tags api
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func (h *APIHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	dbInfo := &model.DatabaseHealthInfo{DatabaseName: "unknown"}
	if sqlDB, err := h.db.DB(); err == nil {
		if err := sqlDB.PingContext(ctx); err == nil {
			dbInfo.Connected = true
			stats := sqlDB.Stats()
			dbInfo.OpenConnections = stats.OpenConnections
			dbInfo.IdleConnections = stats.Idle

			var name string
			if err := h.db.WithContext(ctx).Raw("SELECT DATABASE()").Scan(&name).Error; err == nil {
				dbInfo.DatabaseName = name
			}
		} else {
			log.Printf("database health check failed: %v", err)
		}
	} else {
		log.Printf("database health check failed: %v", err)
	}

	return c.JSON(http.StatusOK, model.HealthResponse{
		Status:   "healthy",
		Service:  config.ServiceName,
		Version:  config.Version,
		Database: dbInfo,
		Cache:    &model.CacheHealthInfo{Connected: h.cache.Ping(ctx)},
	})
}

// ListCategories godoc
// @Summary List visible categories
// @Tags content
// @Produce json
// @Success 200 {array} model.Category
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *APIHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.ListVisible(c.Request().Context())
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category by id
// @Tags content
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *APIHandler) GetCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id", Code: "INVALID_ID"})
	}
	category, err := h.categories.GetCategory(c.Request().Context(), uint(id))
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// ListItems godoc
// @Summary List active items with their categories
// @Tags content
// @Produce json
// @Success 200 {array} model.Item
// @Failure 500 {object} errors.ErrorResponse
// @Router /items [get]
func (h *APIHandler) ListItems(c echo.Context) error {
	items, err := h.items.ListActive(c.Request().Context())
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get an item by id
// @Tags content
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{id} [get]
func (h *APIHandler) GetItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id", Code: "INVALID_ID"})
	}
	item, err := h.items.GetItem(c.Request().Context(), uint(id))
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// NotFound is the JSON fallback for unknown routes.
func (h *APIHandler) NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, model.APIResponse{
		Message:   fmt.Sprintf("The requested path '%s' was not found on this server", c.Request().URL.Path),
		Status:    "error",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *APIHandler) jsonError(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	if he.StatusCode >= http.StatusInternalServerError {
		log.Printf("api error: %v", err)
	}
	return c.JSON(he.StatusCode, he.ToErrorResponse())
}
