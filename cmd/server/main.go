package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "webbase/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"webbase/internal/auth"
	"webbase/internal/cache"
	"webbase/internal/config"
	"webbase/internal/db"
	"webbase/internal/handler"
	"webbase/internal/model"
	"webbase/internal/render"
	"webbase/internal/repository"
	"webbase/internal/router"
	"webbase/internal/service"
)

const reapInterval = time.Hour

// @title Webbase API
// @version 0.1.0
// @description JSON API of the webbase application template, alongside its HTML pages.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("template init: %v", err)
	}
	e.Renderer = renderer

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Item{},
			&model.Category{},
			&model.Session{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Category{},
		&model.Item{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	itemRepo := repository.NewItemRepository(gormDB)

	// Initialize session manager and services
	sessions := auth.NewManager(sessionRepo)
	authService := service.NewAuthService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	itemService := service.NewItemService(itemRepo, cacheClient)

	// Initialize handlers
	webHandler := handler.NewWebHandler(authService, sessions, cfg.CookieSecure)
	apiHandler := handler.NewAPIHandler(gormDB, cacheClient, categoryService, itemService)

	// Register routes
	router.Register(e, sessions, webHandler, apiHandler)

	// Expired sessions are removed lazily on resolution; the reaper only keeps
	// the table from accumulating rows for sessions nobody presents again.
	go func() {
		ticker := time.NewTicker(reapInterval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := sessions.Reap(context.Background())
			if err != nil {
				log.Printf("session reap: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session reap: removed %d expired sessions", n)
			}
		}
	}()

	// Log swagger full path
	var swaggerURL string
	if cfg.SwaggerHost != "" {
		// SwaggerHost may already include scheme (http:// or https://)
		if len(cfg.SwaggerHost) >= 7 && cfg.SwaggerHost[:7] == "http://" {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else if len(cfg.SwaggerHost) >= 8 && cfg.SwaggerHost[:8] == "https://" {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else {
			swaggerURL = "http://" + cfg.SwaggerHost + "/swagger/index.html"
		}
	} else {
		swaggerURL = "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
