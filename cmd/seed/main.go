// Command seed creates an ADMIN user account. Admin is never assigned by
// the role transition engine; this command is the only way to get one.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"peopledesk/internal/config"
	"peopledesk/internal/database"
	"peopledesk/internal/model"
)

func main() {
	var (
		email    = flag.String("email", "", "Admin email address")
		name     = flag.String("name", "Administrator", "Admin display name")
		password = flag.String("password", "", "Admin password")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user, err := db.CreateUser(ctx, database.CreateUserParams{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(passwordHash),
		Role:         model.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			log.Fatalf("A user with email %s already exists", *email)
		}
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Created admin user %s (%s)\n", user.ID, user.Email)
}
