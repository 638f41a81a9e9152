// Package main provides admin management utilities for dashstack.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"dashstack/internal/config"
	"dashstack/internal/database"
	"dashstack/internal/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>              - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>               - Demote user from admin")
		fmt.Println("  go run ./cmd/admin list-admins                    - List all admins")
		fmt.Println("  go run ./cmd/admin ensure-profile <id> <email>    - Create a missing profile row")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleAdmin)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleUser)

	case "list-admins":
		listAdmins(db)

	case "ensure-profile":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin ensure-profile <id> <email>")
			os.Exit(1)
		}
		ensureProfile(db, os.Args[2], os.Args[3])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setRole(db *gorm.DB, userID string, role models.Role) {
	var profile models.Profile
	if err := db.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("Profile with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if profile.Role == role {
		fmt.Printf("%s (%s) already has role %s\n", profile.Email, profile.ID, role)
		return
	}

	profile.Role = role
	if err := db.Save(&profile).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("✅ %s (%s) is now %s\n", profile.Email, profile.ID, role)
}

func listAdmins(db *gorm.DB) {
	var admins []models.Profile
	if err := db.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range admins {
		fmt.Printf("ID: %s | Name: %s | Email: %s\n", admin.ID, admin.FullName, admin.Email)
	}
	fmt.Println("─────────────────────────────────────")
}

func ensureProfile(db *gorm.DB, id, email string) {
	if id == "new" {
		id = uuid.New().String()
	}

	var existing models.Profile
	err := db.Where("id = ?", id).First(&existing).Error
	if err == nil {
		fmt.Printf("Profile %s already exists (%s)\n", existing.ID, existing.Email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Database error: %v", err)
	}

	profile := models.Profile{
		ID:    id,
		Email: email,
		Role:  models.DefaultRole,
	}
	if err := db.Create(&profile).Error; err != nil {
		log.Fatalf("Failed to create profile: %v", err)
	}

	fmt.Printf("✅ Created profile %s for %s\n", profile.ID, profile.Email)
}
