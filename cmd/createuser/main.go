package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"webbase/internal/config"
	"webbase/internal/db"
	"webbase/internal/model"
	"webbase/internal/repository"
	"webbase/internal/service"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <username> [email] [password]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Missing arguments are prompted for interactively.")
	fmt.Fprintln(os.Stderr, "An empty password leaves the account unable to sign in until one is set.")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 4 {
		usage()
	}
	username := strings.TrimSpace(os.Args[1])
	if username == "" {
		usage()
	}

	reader := bufio.NewReader(os.Stdin)

	var email string
	if len(os.Args) >= 3 {
		email = strings.TrimSpace(os.Args[2])
	} else {
		email = prompt(reader, "Email: ")
	}

	var password string
	if len(os.Args) == 4 {
		password = os.Args[3]
	} else {
		password = prompt(reader, "Password (empty to leave unset): ")
	}

	if password != "" && len(password) < service.MinPasswordLength {
		log.Fatalf("Password must be at least %d characters", service.MinPasswordLength)
	}

	cfg := config.Load()
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := service.NewAuthService(repository.NewUserRepository(gormDB))

	user, err := authService.CreateUser(context.Background(), username, email, password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			log.Fatalf("A user named %q already exists", username)
		}
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("Created user %q with id %d", user.Username, user.ID)
	if user.PasswordHash == nil {
		log.Printf("No password set; use set_password to enable sign-in")
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	return strings.TrimSpace(line)
}
