package services

import (
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxRating is the ceiling applied to a specialist's aggregated rating.
const MaxRating = 5.0

type ratingAggregate struct {
	Avg   float64
	Count int64
}

// RecalculateSpecialistRating recomputes a specialist's rating as the mean of
// all reviews attached to their service cards, clamped to MaxRating. A
// specialist with no reviews is reset to 0.
//
// Callers must invoke this inside the same transaction that persisted the
// triggering review so the review write and the rating write commit together.
// The specialist row is locked for update until that transaction ends.
func RecalculateSpecialistRating(tx *gorm.DB, specialistID uuid.UUID) error {
	// Concurrent review writes serialize on the specialist row so a later
	// commit cannot overwrite an earlier aggregate with a stale mean.
	var specialist models.Specialist
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&specialist, "id = ?", specialistID).Error
	if err != nil {
		return err
	}

	var agg ratingAggregate
	err = tx.Model(&models.Review{}).
		Joins("JOIN service_cards ON service_cards.id = reviews.service_card_id").
		Where("service_cards.specialist_id = ?", specialistID).
		Select("COALESCE(AVG(reviews.rating), 0) AS avg, COUNT(reviews.id) AS count").
		Scan(&agg).Error
	if err != nil {
		return err
	}

	rating := agg.Avg
	if agg.Count == 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}

	return tx.Model(&models.Specialist{}).
		Where("id = ?", specialistID).
		Update("rating", rating).Error
}
