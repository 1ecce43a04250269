package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the centralized authentication table.
// Username is the login handle and always mirrors Email.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex:idx_users_username;not null" json:"username"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null" json:"email"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// String is how a user is rendered as a record's creator.
func (u User) String() string {
	return u.Username
}
