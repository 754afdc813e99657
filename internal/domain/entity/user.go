package entity

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is the local mirror of an authenticated principal. Accounts created
// through the identity provider carry a FirebaseUID; legacy accounts predate
// the provider linkage and may only have an email plus a password hash.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255" json:"name,omitempty"`
	Email        string     `gorm:"type:citext;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:100" json:"-"`
	FirebaseUID  string     `gorm:"size:128;uniqueIndex:ix_users_firebase_uid,where:firebase_uid <> ''" json:"firebase_uid,omitempty"`
	PhotoURL     string     `gorm:"size:512" json:"photo_url,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"type:timestamptz" json:"last_login_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave hashes PasswordHash if a raw password was assigned. Values that
// already look like bcrypt output are left untouched to avoid double hashing.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.PasswordHash) > 0 && !strings.HasPrefix(u.PasswordHash, "$2a$") &&
		!strings.HasPrefix(u.PasswordHash, "$2b$") && !strings.HasPrefix(u.PasswordHash, "$2y$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hashed)
	}
	return nil
}

// CheckPassword reports whether password matches the stored hash. Always false
// for accounts without a password hash (provider-only accounts).
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
