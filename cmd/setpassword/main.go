package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"webbase/internal/config"
	"webbase/internal/db"
	"webbase/internal/repository"
	"webbase/internal/service"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <user-id> <password>\n", os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) != 3 {
		usage()
	}

	userID, err := strconv.Atoi(os.Args[1])
	if err != nil || userID < 1 {
		log.Fatalf("Invalid user id %q", os.Args[1])
	}

	password := os.Args[2]
	if len(password) < service.MinPasswordLength {
		log.Fatalf("Password must be at least %d characters", service.MinPasswordLength)
	}

	cfg := config.Load()
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	authService := service.NewAuthService(repository.NewUserRepository(gormDB))

	if err := authService.SetPassword(context.Background(), uint(userID), password); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Fatalf("No user with id %d", userID)
		}
		log.Fatalf("Failed to set password: %v", err)
	}

	log.Printf("Password updated for user %d", userID)
}
