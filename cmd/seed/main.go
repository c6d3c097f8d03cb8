package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"webbase/internal/config"
	"webbase/internal/db"
	"webbase/internal/model"
	"webbase/internal/repository"
)

// seedCategory describes one demo category and the items that go in it.
type seedCategory struct {
	Name         string
	DisplayName  string
	DisplayOrder int
	Items        []seedItem
}

type seedItem struct {
	Title       string
	Description string
	Tags        []string
}

var demoCategories = []seedCategory{
	{
		Name:         "getting-started",
		DisplayName:  "Getting Started",
		DisplayOrder: 1,
		Items: []seedItem{
			{Title: "Welcome", Description: "A first item to prove the pipeline works end to end.", Tags: []string{"intro"}},
			{Title: "Configuration", Description: "How environment variables drive the application.", Tags: []string{"intro", "config"}},
		},
	},
	{
		Name:         "guides",
		DisplayName:  "Guides",
		DisplayOrder: 2,
		Items: []seedItem{
			{Title: "Sessions", Description: "Cookie-backed sessions and the inactivity window.", Tags: []string{"auth"}},
			{Title: "Caching", Description: "Read-through caching of list endpoints.", Tags: []string{"redis"}},
		},
	},
	{
		Name:         "reference",
		DisplayName:  "Reference",
		DisplayOrder: 3,
		Items: []seedItem{
			{Title: "API Surface", Description: "Every JSON endpoint and its response shape.", Tags: []string{"api"}},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.Category{}, &model.Item{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	categoryRepo := repository.NewCategoryRepository(gormDB)
	itemRepo := repository.NewItemRepository(gormDB)
	ctx := context.Background()

	log.Println("Seeding demo content into database...")
	categories, items, err := seedContent(ctx, categoryRepo, itemRepo)
	if err != nil {
		log.Fatalf("Failed to seed content: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Categories present: %d", categories)
	log.Printf("  - Items present: %d", items)
}

// seedContent upserts the demo categories and items. Reruns are idempotent:
// existing rows are found by name/title and left alone.
func seedContent(ctx context.Context, categoryRepo repository.CategoryRepository, itemRepo repository.ItemRepository) (categories int, items int, err error) {
	for _, sc := range demoCategories {
		category, err := categoryRepo.FindByNameOrCreate(ctx, &model.Category{
			CategoryName: sc.Name,
			DisplayName:  sc.DisplayName,
			IsVisible:    true,
			DisplayOrder: sc.DisplayOrder,
		})
		if err != nil {
			return categories, items, fmt.Errorf("error seeding category %s: %w", sc.Name, err)
		}
		categories++

		for _, si := range sc.Items {
			data, err := json.Marshal(map[string]interface{}{
				"seed_ref": uuid.New().String(),
				"tags":     si.Tags,
			})
			if err != nil {
				return categories, items, fmt.Errorf("error encoding item data for %s: %w", si.Title, err)
			}

			description := si.Description
			if _, err := itemRepo.FindByTitleOrCreate(ctx, &model.Item{
				Title:       si.Title,
				Description: &description,
				Data:        data,
				IsActive:    true,
				CategoryID:  category.ID,
			}); err != nil {
				return categories, items, fmt.Errorf("error seeding item %s: %w", si.Title, err)
			}
			items++
		}
	}

	return categories, items, nil
}
