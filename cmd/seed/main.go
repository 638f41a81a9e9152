// Command main runs the database seeder for dashstack.
package main

import (
	"flag"
	"log"

	"dashstack/internal/config"
	"dashstack/internal/database"
	"dashstack/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	adminEmail := flag.String("admin", "admin@dashstack.dev", "Email of the dev admin account")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, clean=%v\n", *numUsers, *shouldClean)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if _, err := s.SeedUsers(*numUsers); err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}

	admin, err := s.EnsureAdmin(*adminEmail)
	if err != nil {
		log.Fatalf("❌ Admin seeding failed: %v", err)
	}
	log.Printf("👑 Admin ready: %s", admin.Email)

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
