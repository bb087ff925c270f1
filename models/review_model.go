package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceCardID uuid.UUID `gorm:"type:uuid;not null" json:"service_card_id"`
	StudentID     uuid.UUID `gorm:"type:uuid;not null" json:"student_id"`
	Rating        float64   `gorm:"not null" json:"rating"`

	ServiceCard ServiceCard `gorm:"foreignkey:ServiceCardID" json:"-"`
	Student     Student     `gorm:"foreignkey:StudentID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
