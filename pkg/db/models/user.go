package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the relational row backing an account.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"column:first_name;type:varchar(50);not null"`
	LastName     string    `gorm:"column:last_name;type:varchar(50);not null"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(1024);not null"`
	Location     *string   `gorm:"column:location"`
	Occupation   *string   `gorm:"column:occupation"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id client-side so sqlite and postgres behave alike.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
