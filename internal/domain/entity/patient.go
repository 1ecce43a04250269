package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is a private record of the user who created it.
type Patient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	DateOfBirth time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	PhoneNumber string    `gorm:"type:varchar(15);not null" json:"phone_number"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Patient) OwnerID() uuid.UUID {
	return p.CreatedByID
}

// DateLayout is the wire and storage format of DateOfBirth.
const DateLayout = "2006-01-02"
