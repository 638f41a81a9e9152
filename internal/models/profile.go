// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is the application-level authorization role stored on a profile.
type Role string

// Available profile roles, ordered by privilege.
const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// DefaultRole is assigned to newly created profiles.
const DefaultRole = RoleUser

// roleRank maps roles to their position in the privilege hierarchy.
var roleRank = map[Role]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of required.
func (r Role) AtLeast(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

// IsAdmin reports whether r is the admin role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Profile is the application's durable user record. Its ID is the same
// opaque identifier carried in session token subjects.
type Profile struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName      string    `json:"full_name,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Role          Role      `gorm:"type:varchar(20);not null;default:user" json:"role"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Credential stores the password hash for a profile. A row exists only for
// accounts that use password-based sign-in; the plaintext is never stored.
type Credential struct {
	UserID       string    `gorm:"primaryKey;size:36" json:"-"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// UserSettings holds per-user presentation and notification preferences,
// upserted on first write with defaults applied when absent.
type UserSettings struct {
	ID                        uint      `gorm:"primaryKey" json:"-"`
	UserID                    string    `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	Locale                    string    `gorm:"size:10;not null;default:en" json:"locale"`
	Theme                     string    `gorm:"size:20;not null;default:light" json:"theme"`
	NotificationsEnabled      bool      `gorm:"not null;default:true" json:"notifications_enabled"`
	EmailNotificationsEnabled bool      `gorm:"not null;default:true" json:"email_notifications_enabled"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings applied when a user has never saved any.
func DefaultSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:                    userID,
		Locale:                    "en",
		Theme:                     "light",
		NotificationsEnabled:      true,
		EmailNotificationsEnabled: true,
	}
}
