package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Specialist is a tutor profile. Rating is derived from reviews and is never
// written directly through the API.
type Specialist struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;unique" json:"account_id"`

	FirstName         string  `gorm:"size:100;not null" json:"first_name"`
	LastName          string  `gorm:"size:100;not null" json:"last_name"`
	Age               int     `gorm:"not null" json:"age"`
	Phone             string  `gorm:"size:100;not null" json:"phone"`
	Email             string  `gorm:"size:255;not null" json:"email"`
	Services          string  `gorm:"type:text" json:"services"`
	Rating            float64 `gorm:"default:0" json:"rating"`
	Education         string  `gorm:"type:text" json:"education"`
	ConsultationPrice float64 `gorm:"type:numeric(8,2);not null" json:"consultation_price"`
	Instagram         string  `gorm:"type:text" json:"instagram"`
	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`

	Account Account `gorm:"foreignkey:AccountID" json:"account"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (s *Specialist) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
