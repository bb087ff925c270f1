package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AccountID     uuid.UUID  `gorm:"type:uuid;not null" json:"account_id"`
	ServiceCardID *uuid.UUID `gorm:"type:uuid" json:"service_card_id,omitempty"`
	Amount        float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency      string     `gorm:"size:3;not null" json:"currency"`
	Description   string     `gorm:"size:255" json:"description"`
	Method        string     `gorm:"size:50;not null" json:"method"`
	ProviderTxnID *string    `gorm:"size:255;unique" json:"provider_txn_id,omitempty"`
	Status        string     `gorm:"size:20;not null" json:"status"`

	Account Account `gorm:"foreignkey:AccountID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
