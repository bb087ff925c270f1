package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentEnrolled  = "enrolled"
	EnrollmentCompleted = "completed"
)

// Enrollment links a student to a service card. Review eligibility is derived
// from a completed enrollment, never from the review payload alone.
type Enrollment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_card" json:"student_id"`
	ServiceCardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_card" json:"service_card_id"`
	Status        string    `gorm:"size:20;not null;default:'enrolled'" json:"status"`

	Student     Student     `gorm:"foreignkey:StudentID" json:"-"`
	ServiceCard ServiceCard `gorm:"foreignkey:ServiceCardID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
