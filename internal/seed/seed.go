// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"dashstack/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password shared by all seeded accounts.
const DefaultPassword = "password123"

// Seeder populates the database with demo accounts.
type Seeder struct {
	db *gorm.DB
	// one hash for every seeded account; bcrypt is too slow to run per user
	passwordHash string
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}
	return &Seeder{db: db, passwordHash: string(hash)}
}

// ClearAll removes all seeded data. Order respects foreign references.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{&models.Credential{}, &models.UserSettings{}, &models.Profile{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}
	return nil
}

// BuildProfile constructs an unsaved profile with fake but plausible data.
func (s *Seeder) BuildProfile() *models.Profile {
	name := gofakeit.Name()
	email := strings.ToLower(fmt.Sprintf("%s.%s@%s",
		gofakeit.FirstName(), gofakeit.LastName(), gofakeit.DomainName()))

	created := time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour)
	return &models.Profile{
		ID:            uuid.New().String(),
		Email:         email,
		FullName:      name,
		AvatarURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:          models.RoleUser,
		EmailVerified: gofakeit.Bool(),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

// CreateUser persists a profile with a credential row and settings.
func (s *Seeder) CreateUser() (*models.Profile, error) {
	profile := s.BuildProfile()
	if err := s.db.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	if err := s.db.Create(&models.Credential{
		UserID:       profile.ID,
		PasswordHash: s.passwordHash,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	settings := models.DefaultSettings(profile.ID)
	if gofakeit.Bool() {
		settings.Theme = "dark"
	}
	if err := s.db.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return profile, nil
}

// SeedUsers creates n regular accounts.
func (s *Seeder) SeedUsers(n int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		profile, err := s.CreateUser()
		if err != nil {
			return profiles, err
		}
		profiles = append(profiles, profile)
	}
	log.Printf("seeded %d users", len(profiles))
	return profiles, nil
}

// EnsureAdmin creates (or promotes) a deterministic admin account for local
// development sign-in.
func (s *Seeder) EnsureAdmin(email string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Where("email = ?", email).First(&profile).Error
	if err == nil {
		if profile.Role != models.RoleAdmin {
			profile.Role = models.RoleAdmin
			if err := s.db.Save(&profile).Error; err != nil {
				return nil, fmt.Errorf("failed to promote admin: %w", err)
			}
		}
		return &profile, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	profile = models.Profile{
		ID:            uuid.New().String(),
		Email:         email,
		FullName:      "Dev Admin",
		Role:          models.RoleAdmin,
		EmailVerified: true,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	if err := s.db.Create(&models.Credential{
		UserID:       profile.ID,
		PasswordHash: s.passwordHash,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin credential: %w", err)
	}
	if err := s.db.Create(models.DefaultSettings(profile.ID)).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin settings: %w", err)
	}
	return &profile, nil
}
