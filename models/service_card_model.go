package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardVariant string

const (
	VariantIndividual CardVariant = "individual"
	VariantGroup      CardVariant = "group"
)

// ServiceCard is a purchasable course or session offered by a specialist.
// Group cards carry a scheduled date, individual cards do not.
//
// CompletedByID is set only when the owning specialist marks the card
// completed and always references that same specialist.
type ServiceCard struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Variant      CardVariant `gorm:"size:20;not null;default:'individual'" json:"variant"`
	Name         string      `gorm:"size:100;not null" json:"name"`
	ImageURL     *string     `gorm:"size:255" json:"image_url"`
	Description  string      `gorm:"type:text" json:"description"`
	SpecialistID uuid.UUID   `gorm:"type:uuid;not null" json:"specialist_id"`
	Price        float64     `gorm:"type:numeric(8,2);not null" json:"price"`
	Date         *time.Time  `json:"date,omitempty"`

	Completed     bool       `gorm:"default:false" json:"completed"`
	CompletedByID *uuid.UUID `gorm:"type:uuid" json:"completed_by"`

	Specialist  Specialist  `gorm:"foreignkey:SpecialistID" json:"specialist"`
	CompletedBy *Specialist `gorm:"foreignkey:CompletedByID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ServiceCard) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
